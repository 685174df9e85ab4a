package listview

import (
	"time"

	"github.com/trucmai204/tinverse/internal/pkg/strutil"
	"github.com/trucmai204/tinverse/internal/pkg/utils"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/idgen"
	"github.com/trucmai204/tinverse/pkg/service/pagination"
)

// 界面文案
const (
	EmptyMessage       = "Không tìm thấy bài viết nào phù hợp."
	FirstLoadMessage   = "Không thể tải danh sách bài viết. Vui lòng thử lại."
	PageLoadMessage    = "Không thể tải trang này. Vui lòng thử lại."
	DefaultSummaryLen  = 150
	DefaultWindowWidth = 5
)

// Card 是一张文章卡片的视图模型
type Card struct {
	ID            int
	URL           string
	Title         string
	Thumbnail     string
	Category      string
	CategoryID    int
	Author        string
	Summary       string
	UpdatedAt     string
	UpdatedAtFull string
	Placeholder   bool
}

// PageLink 分页控件中的一个页码，Gap 表示省略号
type PageLink struct {
	Number  int
	Current bool
	Gap     bool
}

// Pager 分页控件
type Pager struct {
	Current    int
	TotalPages int
	TotalItems int
	HasPrev    bool
	HasNext    bool
	Prev       int
	Next       int
	Pages      []PageLink
}

// Banner 错误横幅
type Banner struct {
	Message string
	Retry   bool
}

// View 是列表片段渲染所需的全部数据
type View struct {
	Mode         Mode
	Cards        []Card
	Skeletons    []int
	Banner       *Banner
	EmptyMessage string
	Pager        Pager
	Refreshing   bool
	Source       string
}

// Options 控制视图的生成
type Options struct {
	Now              func() time.Time
	SummaryLength    int
	WindowWidth      int
	ItemsPerPage     int
	DefaultThumbnail string
	// CategoryName 在文章只带分类ID时查询分类名称，可以为 nil
	CategoryName func(id int) string
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.SummaryLength <= 0 {
		o.SummaryLength = DefaultSummaryLen
	}
	if o.WindowWidth <= 0 {
		o.WindowWidth = DefaultWindowWidth
	}
	if o.ItemsPerPage <= 0 {
		o.ItemsPerPage = 9
	}
	return o
}

// Build 根据显示状态和加载结果生成视图
func Build(state *State, res pagination.Result, opts Options) View {
	opts = opts.withDefaults()
	mode := state.Mode()
	v := View{Mode: mode, Source: res.Source.String()}

	switch mode {
	case ModeLoading:
		v.Skeletons = make([]int, opts.ItemsPerPage)
		return v
	case ModeError:
		msg := PageLoadMessage
		if state.FirstLoadFailed() {
			msg = FirstLoadMessage
		}
		v.Banner = &Banner{Message: msg, Retry: true}
		return v
	case ModeEmpty:
		v.EmptyMessage = EmptyMessage
	}

	now := opts.Now()
	v.Cards = make([]Card, 0, len(res.Articles))
	for _, a := range res.Articles {
		v.Cards = append(v.Cards, buildCard(a, now, opts))
	}
	v.Refreshing = res.Source == pagination.SourceStale
	v.Pager = BuildPager(res.Page, res.TotalPages, res.TotalItems, opts.WindowWidth)
	return v
}

// NewCard 生成单张卡片，供列表实例之外的页面使用（例如收藏页）
func NewCard(a model.Article, now time.Time, opts Options) Card {
	return buildCard(a, now, opts.withDefaults())
}

func buildCard(a model.Article, now time.Time, opts Options) Card {
	c := Card{
		ID:          a.ID,
		Title:       a.Title,
		Thumbnail:   a.Thumbnail,
		CategoryID:  a.Category.ID,
		Category:    a.Category.Label(),
		Author:      a.Author,
		Summary:     strutil.Truncate(a.Summary, opts.SummaryLength),
		Placeholder: a.Placeholder,
	}
	if a.Category.Name == "" && a.Category.ID > 0 && opts.CategoryName != nil {
		if name := opts.CategoryName(a.Category.ID); name != "" {
			c.Category = name
		}
	}
	if c.Thumbnail == "" {
		c.Thumbnail = opts.DefaultThumbnail
	}
	// 占位文章没有详情页
	if !a.Placeholder {
		c.URL = idgen.ArticlePath(a.ID)
	}
	if !a.UpdatedAt.IsZero() {
		c.UpdatedAt = utils.FormatRelative(a.UpdatedAt, now)
		c.UpdatedAtFull = utils.FormatDisplay(a.UpdatedAt)
	}
	return c
}

// BuildPager 生成分页控件。页码窗口以当前页为中心，首页和末页始终显示。
func BuildPager(current, totalPages, totalItems, width int) Pager {
	if current < 1 {
		current = 1
	}
	p := Pager{Current: current, TotalPages: totalPages, TotalItems: totalItems}
	if totalPages <= 1 {
		return p
	}
	if current > totalPages {
		current = totalPages
		p.Current = current
	}
	p.HasPrev = current > 1
	p.HasNext = current < totalPages
	if p.HasPrev {
		p.Prev = current - 1
	}
	if p.HasNext {
		p.Next = current + 1
	}

	if width < 1 {
		width = DefaultWindowWidth
	}
	start := current - width/2
	end := start + width - 1
	if start < 1 {
		start, end = 1, width
	}
	if end > totalPages {
		end = totalPages
		start = end - width + 1
		if start < 1 {
			start = 1
		}
	}

	if start > 1 {
		p.Pages = append(p.Pages, PageLink{Number: 1})
		if start > 2 {
			p.Pages = append(p.Pages, PageLink{Gap: true})
		}
	}
	for n := start; n <= end; n++ {
		p.Pages = append(p.Pages, PageLink{Number: n, Current: n == current})
	}
	if end < totalPages {
		if end < totalPages-1 {
			p.Pages = append(p.Pages, PageLink{Gap: true})
		}
		p.Pages = append(p.Pages, PageLink{Number: totalPages})
	}
	return p
}
