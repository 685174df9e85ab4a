// Package filter 维护列表的关键字和分类筛选状态。
// 分类变化立即生效；关键字输入先防抖，失焦或提交时立刻生效。
package filter

import (
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/trucmai204/tinverse/pkg/domain/model"
)

// DefaultDebounce 关键字输入的防抖时长
const DefaultDebounce = 500 * time.Millisecond

// Event 表单事件
type Event string

const (
	EventInput    Event = "input"
	EventBlur     Event = "blur"
	EventSubmit   Event = "submit"
	EventCategory Event = "category"
)

// ParseEvent 解析表单事件，未知值按提交处理
func ParseEvent(raw string) Event {
	switch Event(raw) {
	case EventInput, EventBlur, EventCategory:
		return Event(raw)
	default:
		return EventSubmit
	}
}

// Outcome 一次筛选操作的结果
type Outcome int

const (
	Unchanged  Outcome = iota // 与当前条件相同，被抑制
	Applied                   // 新条件已生效
	Superseded                // 防抖期间被后续输入或其它事件取代
)

// Timer 是可以取消的定时器，测试中可以替换
type Timer interface {
	Stop() bool
}

// AfterFunc 在 d 之后调用 f
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Options 配置 Controller
type Options struct {
	Debounce  time.Duration
	AfterFunc AfterFunc
	// OnChange 在新条件生效后调用，调用时不持有锁
	OnChange func(model.SearchFilter)
}

// pending 是尚未生效的关键字输入
type pending struct {
	seq    uint64
	filter model.SearchFilter
	timer  Timer
	done   chan Outcome
}

// Controller 是单个列表实例的筛选控制器
type Controller struct {
	debounce  time.Duration
	afterFunc AfterFunc
	onChange  func(model.SearchFilter)

	// notifyMu 串行化 OnChange，回调总是拿到最新生效的条件
	notifyMu sync.Mutex

	mu      sync.Mutex
	applied model.SearchFilter
	pending *pending
	seq     uint64
}

// New 创建筛选控制器，initial 通常来自 URL 参数
func New(initial model.SearchFilter, opts Options) *Controller {
	c := &Controller{
		debounce:  opts.Debounce,
		afterFunc: opts.AfterFunc,
		onChange:  opts.OnChange,
		applied:   initial.Normalize(),
	}
	if c.debounce <= 0 {
		c.debounce = DefaultDebounce
	}
	if c.afterFunc == nil {
		c.afterFunc = stdAfterFunc
	}
	return c
}

// TypeKeyword 记录一次关键字输入并重新开始防抖计时。
// 返回的通道在这次输入生效、被抑制或被取代时收到结果。
func (c *Controller) TypeKeyword(keyword string) <-chan Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := c.applied
	if c.pending != nil {
		base = c.pending.filter
		c.cancelPendingLocked(Superseded)
	}
	c.seq++
	p := &pending{
		seq:    c.seq,
		filter: base.WithKeyword(keyword),
		done:   make(chan Outcome, 1),
	}
	seq := p.seq
	p.timer = c.afterFunc(c.debounce, func() { c.fire(seq) })
	c.pending = p
	return p.done
}

// fire 防抖计时结束
func (c *Controller) fire(seq uint64) {
	c.mu.Lock()
	p := c.pending
	if p == nil || p.seq != seq {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	changed := c.applyLocked(p.filter)
	c.mu.Unlock()

	if changed {
		// 先通知再唤醒等待方，等待方看到的已经是重置后的列表
		c.notify()
		p.done <- Applied
	} else {
		p.done <- Unchanged
	}
}

// Blur 输入框失焦，立刻应用尚未生效的关键字
func (c *Controller) Blur() Outcome {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return Unchanged
	}
	f := c.pending.filter
	c.cancelPendingLocked(Superseded)
	return c.applyAndNotify(f)
}

// Submit 提交表单，立刻应用给定的条件
func (c *Controller) Submit(f model.SearchFilter) Outcome {
	c.mu.Lock()
	c.cancelPendingLocked(Superseded)
	return c.applyAndNotify(f)
}

// SetCategory 立刻切换分类。防抖中的关键字一并生效。
func (c *Controller) SetCategory(id *int) Outcome {
	c.mu.Lock()
	base := c.applied
	if c.pending != nil {
		base = c.pending.filter
		c.cancelPendingLocked(Superseded)
	}
	return c.applyAndNotify(base.WithCategory(id))
}

// Applied 当前生效的筛选条件
func (c *Controller) Applied() model.SearchFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applied
}

// Pending 返回防抖中尚未生效的条件
func (c *Controller) Pending() (model.SearchFilter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return model.SearchFilter{}, false
	}
	return c.pending.filter, true
}

// Query 返回与当前条件对应的 URL 参数，用于同步地址栏
func (c *Controller) Query() url.Values {
	f := c.Applied()
	v := url.Values{}
	if f.Keyword != "" {
		v.Set(model.QueryKeyword, f.Keyword)
	}
	if f.CategoryID != nil {
		v.Set(model.QueryCategoryID, strconv.Itoa(*f.CategoryID))
	}
	return v
}

// Stop 取消防抖中的输入
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked(Superseded)
}

// applyAndNotify 在持有锁时调用，返回前释放锁
func (c *Controller) applyAndNotify(f model.SearchFilter) Outcome {
	f = f.Normalize()
	changed := c.applyLocked(f)
	c.mu.Unlock()
	if !changed {
		return Unchanged
	}
	c.notify()
	return Applied
}

func (c *Controller) applyLocked(f model.SearchFilter) bool {
	if c.applied.Equal(f) {
		return false
	}
	c.applied = f.Normalize()
	return true
}

func (c *Controller) cancelPendingLocked(outcome Outcome) {
	if c.pending == nil {
		return
	}
	c.pending.timer.Stop()
	c.pending.done <- outcome
	c.pending = nil
}

func (c *Controller) notify() {
	if c.onChange == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.onChange(c.Applied())
}
