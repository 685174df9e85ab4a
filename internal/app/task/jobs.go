package task

// Job 与 cron.Job 接口兼容，Name 用于日志
type Job interface {
	Run()
	Name() string
}

// funcJob 把一个函数包装成 Job
type funcJob struct {
	name string
	fn   func()
}

func (j *funcJob) Name() string {
	return j.name
}

func (j *funcJob) Run() {
	j.fn()
}
