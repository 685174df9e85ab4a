package task

import "github.com/trucmai204/tinverse/internal/pkg/metrics"

// ListRegistryStatsJob 定期统计存活的列表实例，并校准指标
type ListRegistryStatsJob struct {
	registry RegistryStats
}

// NewListRegistryStatsJob 是任务的构造函数
func NewListRegistryStatsJob(registry RegistryStats) *ListRegistryStatsJob {
	return &ListRegistryStatsJob{registry: registry}
}

// Name 返回任务名称
func (j *ListRegistryStatsJob) Name() string {
	return "ListRegistryStatsJob"
}

// Run 执行统计
func (j *ListRegistryStatsJob) Run() {
	metrics.ListInstances.Set(float64(j.registry.Live()))
}
