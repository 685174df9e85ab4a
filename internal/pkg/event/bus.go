/*
 * @Description: 带固定 Worker 池的异步事件总线
 */
package event

import (
	"log"
	"sync"

	"github.com/trucmai204/tinverse/internal/pkg/metrics"
)

// Topic 事件主题
type Topic string

const (
	// CategoryChanged 分类被创建、修改或删除，负载为分类ID (int)
	CategoryChanged Topic = "category:changed"
	// SessionEnded 用户登出，负载为用户ID (int)
	SessionEnded Topic = "session:ended"
	// ArticleChanged 文章被创建、修改、删除或改变发布状态，负载为文章ID (int)
	ArticleChanged Topic = "article:changed"
)

// Handler 事件处理函数
type Handler func(payload interface{})

// Event 是队列中传递的事件
type Event struct {
	Topic   Topic
	Payload interface{}
}

const (
	DefaultWorkerCount = 2
	DefaultChannelSize = 256
)

// EventBus 把事件放进有界队列，由固定数量的 worker 依次交给订阅者。
// 队列满时丢弃事件，Publish 不会阻塞调用方。
type EventBus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler
	closed   bool

	queue    chan Event
	wg       sync.WaitGroup
	shutdown sync.Once
}

// NewEventBus 使用默认配置创建并启动事件总线
func NewEventBus() *EventBus {
	return NewEventBusWithWorkers(DefaultWorkerCount, DefaultChannelSize)
}

// NewEventBusWithWorkers 使用指定的 worker 数量和队列长度创建事件总线
func NewEventBusWithWorkers(workers, size int) *EventBus {
	if workers <= 0 {
		workers = 1
	}
	if size < 0 {
		size = 0
	}
	b := &EventBus{
		handlers: make(map[Topic][]Handler),
		queue:    make(chan Event, size),
	}
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go b.run(i + 1)
	}
	return b
}

func (b *EventBus) run(workerID int) {
	defer b.wg.Done()
	for ev := range b.queue {
		for _, h := range b.subscribers(ev.Topic) {
			b.deliver(workerID, ev, h)
		}
	}
}

// subscribers 返回订阅者列表的快照，处理函数执行期间不持有锁
func (b *EventBus) subscribers(topic Topic) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := b.handlers[topic]
	out := make([]Handler, len(hs))
	copy(out, hs)
	return out
}

func (b *EventBus) deliver(workerID int, ev Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[EventBus] worker %d 处理事件 '%s' 时 panic: %v", workerID, ev.Topic, r)
		}
	}()
	h(ev.Payload)
}

// Subscribe 订阅一个主题
func (b *EventBus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish 发布事件。总线关闭后或队列已满时事件被丢弃。
func (b *EventBus) Publish(topic Topic, payload interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		metrics.EventsPublished.WithLabelValues(string(topic), "closed").Inc()
		return
	}
	select {
	case b.queue <- Event{Topic: topic, Payload: payload}:
		metrics.EventsPublished.WithLabelValues(string(topic), "queued").Inc()
	default:
		metrics.EventsPublished.WithLabelValues(string(topic), "dropped").Inc()
		log.Printf("[EventBus] 事件队列已满，丢弃主题 '%s' 的事件", topic)
	}
}

// Shutdown 停止接收新事件，等待队列中的事件处理完毕。可以重复调用。
func (b *EventBus) Shutdown() {
	b.shutdown.Do(func() {
		b.mu.Lock()
		b.closed = true
		close(b.queue)
		b.mu.Unlock()
		b.wg.Wait()
		log.Println("[EventBus] 所有 worker 已停止")
	})
}
