/*
 * @Description: cron 任务和后台任务共用的装饰器
 */
package task

import (
	"context"
	"log/slog"
	"reflect"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// JobWrapper 是 cron.JobWrapper 的别名
type JobWrapper = cron.JobWrapper

// NewLoggingWrapper 记录每次执行的开始、结束和耗时，每次执行带一个唯一的 execution_id。
// 包装后的任务保留原任务的名称。
// 分页缓存的后台刷新非常频繁，level 传 slog.LevelDebug 可以降低日志量。
func NewLoggingWrapper(logger *slog.Logger, level slog.Level) JobWrapper {
	return func(j cron.Job) cron.Job {
		name := getJobName(j)
		return &funcJob{name: name, fn: func() {
			jobLogger := logger.With(
				slog.String("job_name", name),
				slog.String("execution_id", uuid.NewString()),
			)
			start := time.Now()
			jobLogger.Log(context.Background(), level, "Job execution started")
			j.Run()
			jobLogger.Log(context.Background(), level, "Job execution finished", slog.Duration("duration", time.Since(start)))
		}}
	}
}

// NewPanicRecoveryWrapper 捕获任务中的 panic 并记录堆栈，进程继续运行
func NewPanicRecoveryWrapper(logger *slog.Logger) JobWrapper {
	return func(j cron.Job) cron.Job {
		name := getJobName(j)
		return &funcJob{name: name, fn: func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Job panicked",
						slog.String("job_name", name),
						slog.Any("panic", r),
						slog.String("stack_trace", string(debug.Stack())),
					)
				}
			}()
			j.Run()
		}}
	}
}

// getJobName 优先使用任务的 Name()，否则用反射取类型名
func getJobName(j cron.Job) string {
	if named, ok := j.(interface{ Name() string }); ok {
		return named.Name()
	}
	t := reflect.TypeOf(j)
	if t.Kind() == reflect.Ptr {
		return t.Elem().String()
	}
	return t.String()
}
