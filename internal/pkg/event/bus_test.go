package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewEventBusWithWorkers(1, 8)
	var mu sync.Mutex
	var got []interface{}
	bus.Subscribe(CategoryChanged, func(p interface{}) {
		mu.Lock()
		got = append(got, p)
		mu.Unlock()
	})

	bus.Publish(CategoryChanged, 1)
	bus.Publish(SessionEnded, 2)
	bus.Publish(CategoryChanged, 3)
	bus.Shutdown()

	assert.Equal(t, []interface{}{1, 3}, got)
}

func TestHandlerPanicDoesNotStopWorker(t *testing.T) {
	bus := NewEventBusWithWorkers(1, 8)
	done := make(chan int, 1)
	bus.Subscribe(ArticleChanged, func(p interface{}) {
		if p.(int) == 0 {
			panic("boom")
		}
		done <- p.(int)
	})

	bus.Publish(ArticleChanged, 0)
	bus.Publish(ArticleChanged, 5)
	select {
	case id := <-done:
		assert.Equal(t, 5, id)
	case <-time.After(2 * time.Second):
		t.Fatal("事件未送达")
	}
	bus.Shutdown()
}

func TestPublishAfterShutdown(t *testing.T) {
	bus := NewEventBusWithWorkers(1, 1)
	bus.Shutdown()
	require.NotPanics(t, func() { bus.Publish(SessionEnded, 1) })
	require.NotPanics(t, bus.Shutdown)
}

func TestFullQueueDropsEvents(t *testing.T) {
	bus := NewEventBusWithWorkers(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})
	var count int
	var mu sync.Mutex
	bus.Subscribe(SessionEnded, func(interface{}) {
		mu.Lock()
		count++
		first := count == 1
		mu.Unlock()
		if first {
			close(started)
			<-release
		}
	})

	bus.Publish(SessionEnded, 1)
	<-started
	bus.Publish(SessionEnded, 2) // 进入队列
	bus.Publish(SessionEnded, 3) // 队列已满
	close(release)
	bus.Shutdown()

	assert.Equal(t, 2, count)
}
