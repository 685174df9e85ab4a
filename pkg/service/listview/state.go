// Package listview 把分页缓存的加载结果转换成列表的显示状态和卡片视图模型。
package listview

import (
	"errors"
	"sync"

	"github.com/trucmai204/tinverse/pkg/service/pagination"
)

// Mode 列表的显示模式
type Mode string

const (
	ModeLoading Mode = "loading" // 还没有任何数据
	ModeLoaded  Mode = "loaded"  // 有数据，可能正在后台刷新
	ModeEmpty   Mode = "empty"   // 没有条目，也没有错误
	ModeError   Mode = "error"   // 首次加载失败
)

// State 保存单个列表实例的显示模式。它只由加载结果驱动。
type State struct {
	mu      sync.Mutex
	mode    Mode
	hasData bool
	err     error
}

// NewState 新挂载的列表处于 loading
func NewState() *State {
	return &State{mode: ModeLoading}
}

// Begin 开始一次加载。只有当前没有展示任何数据时才进入 loading，
// 已有数据时保持原样，新数据到达前继续展示旧数据。
func (s *State) Begin() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasData {
		s.mode = ModeLoading
		s.err = nil
	}
	return s.mode
}

// Resolve 根据一次加载的结果切换显示模式。被后续加载取代的结果不改变状态。
func (s *State) Resolve(res pagination.Result, err error) Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if res.Superseded {
		return s.mode
	}
	switch {
	case err != nil:
		s.mode = ModeError
		s.err = err
		s.hasData = false
	case res.IsEmpty():
		s.mode = ModeEmpty
		s.err = nil
		s.hasData = false
	default:
		s.mode = ModeLoaded
		s.err = nil
		s.hasData = true
	}
	return s.mode
}

// Mode 当前显示模式
func (s *State) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Err 进入 error 模式的原因
func (s *State) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// FirstLoadFailed 判断当前错误是否为首次加载失败
func (s *State) FirstLoadFailed() bool {
	return errors.Is(s.Err(), pagination.ErrFirstLoad)
}
