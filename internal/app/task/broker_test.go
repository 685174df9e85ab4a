package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategories struct {
	calls atomic.Int32
	err   error
	done  chan struct{}
}

func (f *fakeCategories) RefreshCategories(ctx context.Context) error {
	f.calls.Add(1)
	if f.done != nil {
		f.done <- struct{}{}
	}
	return f.err
}

type fakeRegistry struct{ n int }

func (f fakeRegistry) Live() int { return f.n }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSpawn_RunsWithDeadline(t *testing.T) {
	b := NewBroker(nil, nil, BrokerOptions{Workers: 2, QueueSize: 4, JobTimeout: time.Second, Logger: quietLogger()})
	defer b.Stop()

	done := make(chan bool, 1)
	b.Spawn("test", func(ctx context.Context) {
		_, ok := ctx.Deadline()
		done <- ok
	})

	select {
	case hasDeadline := <-done:
		assert.True(t, hasDeadline)
	case <-time.After(2 * time.Second):
		t.Fatal("任务没有执行")
	}
}

func TestWorkerSurvivesPanic(t *testing.T) {
	b := NewBroker(nil, nil, BrokerOptions{Workers: 1, QueueSize: 4, Logger: quietLogger()})
	defer b.Stop()

	b.Spawn("panics", func(context.Context) { panic("boom") })

	done := make(chan struct{})
	b.Spawn("after", func(context.Context) { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("panic 之后 worker 不再处理任务")
	}
}

func TestStop_DrainsQueueAndRejectsNewJobs(t *testing.T) {
	b := NewBroker(nil, nil, BrokerOptions{Workers: 1, QueueSize: 8, Logger: quietLogger()})

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 5; i++ {
		assert.True(t, b.Dispatch(&funcJob{name: "count", fn: func() {
			mu.Lock()
			ran++
			mu.Unlock()
		}}))
	}
	b.Stop()
	assert.Equal(t, 5, ran)

	assert.False(t, b.Dispatch(&funcJob{name: "late", fn: func() {}}))
	b.Stop()
}

func TestDispatch_DropsWhenQueueFull(t *testing.T) {
	b := NewBroker(nil, nil, BrokerOptions{Workers: 1, QueueSize: 1, Logger: quietLogger()})
	release := make(chan struct{})
	started := make(chan struct{})
	defer func() {
		close(release)
		b.Stop()
	}()

	require.True(t, b.Dispatch(&funcJob{name: "block", fn: func() {
		close(started)
		<-release
	}}))
	<-started
	require.True(t, b.Dispatch(&funcJob{name: "queued", fn: func() {}}))
	assert.False(t, b.Dispatch(&funcJob{name: "dropped", fn: func() {}}))
}

func TestStart_RefreshesCategoriesImmediately(t *testing.T) {
	cats := &fakeCategories{err: errors.New("timeout"), done: make(chan struct{}, 1)}
	b := NewBroker(cats, fakeRegistry{n: 3}, BrokerOptions{Workers: 1, Logger: quietLogger()})
	require.NoError(t, b.RegisterCronJobs())

	b.Start()
	select {
	case <-cats.done:
	case <-time.After(2 * time.Second):
		t.Fatal("启动时没有刷新分类")
	}
	b.Stop()
	assert.Equal(t, int32(1), cats.calls.Load())
}

func TestGetJobName(t *testing.T) {
	assert.Equal(t, "RefreshCategoriesJob", getJobName(NewRefreshCategoriesJob(&fakeCategories{}, time.Second)))
	assert.Equal(t, "ListRegistryStatsJob", getJobName(NewListRegistryStatsJob(fakeRegistry{})))
}

func TestWrappersKeepJobName(t *testing.T) {
	logger := quietLogger()
	job := NewRefreshCategoriesJob(&fakeCategories{}, time.Second)
	wrapped := NewPanicRecoveryWrapper(logger)(NewLoggingWrapper(logger, slog.LevelInfo)(job))
	assert.Equal(t, job.Name(), getJobName(wrapped))
}
