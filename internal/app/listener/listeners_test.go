package listener

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trucmai204/tinverse/internal/app/task"
	"github.com/trucmai204/tinverse/internal/pkg/event"
)

type syncBus struct {
	handlers map[event.Topic][]event.Handler
}

func (b *syncBus) Subscribe(topic event.Topic, handler event.Handler) {
	if b.handlers == nil {
		b.handlers = map[event.Topic][]event.Handler{}
	}
	b.handlers[topic] = append(b.handlers[topic], handler)
}

func (b *syncBus) Publish(topic event.Topic, payload interface{}) {
	for _, h := range b.handlers[topic] {
		h(payload)
	}
}

type recordingDispatcher struct{ jobs []task.Job }

func (d *recordingDispatcher) Dispatch(job task.Job) bool {
	d.jobs = append(d.jobs, job)
	return true
}

type noopCategories struct{}

func (noopCategories) RefreshCategories(context.Context) error { return nil }

type forgetter struct{ users []int }

func (f *forgetter) Forget(_ context.Context, userID int) error {
	f.users = append(f.users, userID)
	return nil
}

func TestCategoryChangedDispatchesRefresh(t *testing.T) {
	bus := &syncBus{}
	d := &recordingDispatcher{}
	NewCategoryChangedListener(bus, d, noopCategories{})

	bus.Publish(event.CategoryChanged, 3)
	require.Len(t, d.jobs, 1)
	assert.Equal(t, "RefreshCategoriesJob", d.jobs[0].Name())
}

func TestSessionEndedForgetsBookmarks(t *testing.T) {
	bus := &syncBus{}
	f := &forgetter{}
	NewSessionEndedListener(bus, f)

	bus.Publish(event.SessionEnded, 7)
	bus.Publish(event.SessionEnded, "bad")
	bus.Publish(event.SessionEnded, 0)
	assert.Equal(t, []int{7}, f.users)
}

func TestWithRealEventBus(t *testing.T) {
	bus := event.NewEventBusWithWorkers(1, 4)
	forgotten := make(chan int, 1)
	NewSessionEndedListener(bus, forgetFunc(func(id int) { forgotten <- id }))

	bus.Publish(event.SessionEnded, 9)
	select {
	case id := <-forgotten:
		assert.Equal(t, 9, id)
	case <-time.After(2 * time.Second):
		t.Fatal("事件没有被处理")
	}
	bus.Shutdown()
}

type forgetFunc func(id int)

func (f forgetFunc) Forget(_ context.Context, userID int) error {
	f(userID)
	return nil
}

type countingFeed struct{ calls int }

func (f *countingFeed) InvalidateCache(context.Context) error {
	f.calls++
	return nil
}

func TestArticleChangedInvalidatesFeed(t *testing.T) {
	bus := &syncBus{}
	feed := &countingFeed{}
	NewArticleChangedListener(bus, feed)

	bus.Publish(event.ArticleChanged, 12)
	bus.Publish(event.CategoryChanged, 1)
	assert.Equal(t, 1, feed.calls)
}
