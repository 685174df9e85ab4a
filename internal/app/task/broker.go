package task

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// 后台任务的默认配置
const (
	DefaultQueueSize  = 1000
	DefaultJobTimeout = 30 * time.Second
)

// 周期任务的调度表达式（带秒）
const (
	ScheduleRefreshCategories = "0 */10 * * * *" // 每 10 分钟
	ScheduleListRegistryStats = "0 0 * * * *"    // 每小时
)

// CategoryRefresher 重新拉取分类菜单
type CategoryRefresher interface {
	RefreshCategories(ctx context.Context) error
}

// RegistryStats 统计存活的列表实例
type RegistryStats interface {
	Live() int
}

// BrokerOptions 配置 Broker
type BrokerOptions struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
	Logger     *slog.Logger
}

// Broker 负责周期任务和后台任务的执行
type Broker struct {
	cron       *cron.Cron
	logger     *slog.Logger
	categories CategoryRefresher
	registry   RegistryStats

	jobQueue   chan Job
	jobTimeout time.Duration
	workers    int
	baseCtx    context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// NewBroker 是 Broker 的构造函数，创建后立即启动 worker 池
func NewBroker(categories CategoryRefresher, registry RegistryStats, opts BrokerOptions) *Broker {
	logger := opts.Logger
	if logger == nil {
		handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
		logger = slog.New(handler)
	}
	logger = logger.With("system", "task_broker")

	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = DefaultJobTimeout
	}

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger, slog.LevelInfo),
			cron.DelayIfStillRunning(cron.DefaultLogger),
		),
	)

	ctx, cancel := context.WithCancel(context.Background())
	b := &Broker{
		cron:       c,
		logger:     logger,
		categories: categories,
		registry:   registry,
		jobQueue:   make(chan Job, opts.QueueSize),
		jobTimeout: opts.JobTimeout,
		workers:    opts.Workers,
		baseCtx:    ctx,
		cancel:     cancel,
	}
	b.startWorkerPool()
	return b
}

// startWorkerPool 启动固定数量的 worker
func (b *Broker) startWorkerPool() {
	b.logger.Info("Starting task worker pool", "concurrency", b.workers)
	chain := cron.NewChain(
		NewPanicRecoveryWrapper(b.logger),
		NewLoggingWrapper(b.logger, slog.LevelDebug),
	)
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		workerID := i + 1
		go func() {
			defer b.wg.Done()
			for job := range b.jobQueue {
				chain.Then(job).Run()
			}
			b.logger.Debug("Worker stopped", "worker_id", workerID)
		}()
	}
}

// Dispatch 把任务放进队列。队列已满或 Broker 已停止时丢弃任务，返回 false。
func (b *Broker) Dispatch(job Job) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.stopped {
		b.logger.Warn("Broker stopped, dropping job", "job_name", job.Name())
		return false
	}
	select {
	case b.jobQueue <- job:
		return true
	default:
		b.logger.Warn("Job queue is full, dropping job", "job_name", job.Name())
		return false
	}
}

// Spawn 以函数形式派发一个后台任务，签名与 pagination.Spawner 一致。
// 任务的上下文在超时或 Broker 停止时取消。
func (b *Broker) Spawn(name string, fn func(ctx context.Context)) {
	timeout := b.jobTimeout
	b.Dispatch(&funcJob{name: name, fn: func() {
		ctx, cancel := context.WithTimeout(b.baseCtx, timeout)
		defer cancel()
		fn(ctx)
	}})
}

// RegisterCronJobs 注册所有周期任务
func (b *Broker) RegisterCronJobs() error {
	b.logger.Info("Registering all periodic jobs...")

	if b.categories != nil {
		job := NewRefreshCategoriesJob(b.categories, b.jobTimeout)
		if _, err := b.cron.AddJob(ScheduleRefreshCategories, job); err != nil {
			return fmt.Errorf("注册任务 %s 失败: %w", job.Name(), err)
		}
		b.logger.Info("-> Successfully registered job", "job_name", job.Name(), "schedule", "every 10 minutes")
	}

	if b.registry != nil {
		job := NewListRegistryStatsJob(b.registry)
		if _, err := b.cron.AddJob(ScheduleListRegistryStats, job); err != nil {
			return fmt.Errorf("注册任务 %s 失败: %w", job.Name(), err)
		}
		b.logger.Info("-> Successfully registered job", "job_name", job.Name(), "schedule", "every hour")
	}

	b.logger.Info("All periodic jobs registered.")
	return nil
}

// Start 启动 cron 调度器，并在后台立即刷新一次分类菜单
func (b *Broker) Start() {
	b.logger.Info("Task broker started.")
	b.cron.Start()
	if b.categories != nil {
		b.Dispatch(NewRefreshCategoriesJob(b.categories, b.jobTimeout))
	}
}

// Stop 停止调度器，等待队列中的任务执行完毕
func (b *Broker) Stop() {
	b.logger.Info("Stopping task broker...")
	<-b.cron.Stop().Done()

	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	close(b.jobQueue)
	b.mu.Unlock()

	b.wg.Wait()
	b.cancel()
	b.logger.Info("Task broker gracefully stopped.")
}
