package view

import (
	"strings"
	"time"

	"github.com/trucmai204/tinverse/internal/pkg/utils"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/service/articlelist"
	"github.com/trucmai204/tinverse/pkg/service/listview"
	"github.com/trucmai204/tinverse/pkg/service/session"
)

// DashboardPath 作者后台列表的挂载路径
const DashboardPath = "/dashboard/articles"

// ListData 是 article_list 片段的数据
type ListData struct {
	Handle     string
	View       listview.View
	Filter     model.SearchFilter
	URL        string
	Categories []model.Category
}

// NewListData 组合一个列表实例的片段数据
func NewListData(l *articlelist.List, v listview.View, categories []model.Category) ListData {
	return ListData{
		Handle:     l.Handle(),
		View:       v,
		Filter:     l.Query().Filter,
		URL:        l.URL(),
		Categories: categories,
	}
}

// ListFragment 列表实例对应的片段模板
func ListFragment(l *articlelist.List) string {
	if strings.HasPrefix(l.BasePath(), DashboardPath) {
		return "dashboard_list"
	}
	return "article_list"
}

// BookmarkData 是收藏按钮片段的数据
type BookmarkData struct {
	PublicID   string
	Bookmarked bool
}

// CommentItem 单条评论的视图模型
type CommentItem struct {
	ID            int
	Author        string
	Avatar        string
	Content       string
	CreatedAt     string
	CreatedAtFull string
	Editable      bool
}

// CommentsData 是评论区片段的数据
type CommentsData struct {
	PublicID string
	Items    []CommentItem
	Total    int
	Pager    listview.Pager
	CanPost  bool
	Error    string
	Draft    string
}

// NewCommentsData 生成评论区。本人和管理员可以看到修改和删除按钮，真正的权限由后端校验。
func NewCommentsData(s *session.Session, publicID string, env model.Envelope[model.Comment], now time.Time) CommentsData {
	d := CommentsData{
		PublicID: publicID,
		Items:    make([]CommentItem, 0, len(env.Items)),
		Total:    env.TotalItems,
		Pager:    listview.BuildPager(env.CurrentPage, env.TotalPages, env.TotalItems, listview.DefaultWindowWidth),
		CanPost:  s.LoggedIn(),
	}
	for _, cm := range env.Items {
		at := cm.CreatedAt
		if at.IsZero() {
			at = cm.UpdatedAt
		}
		d.Items = append(d.Items, CommentItem{
			ID:            cm.ID,
			Author:        cm.AuthorName,
			Avatar:        cm.Avatar,
			Content:       cm.Content,
			CreatedAt:     utils.FormatRelative(at, now),
			CreatedAtFull: utils.FormatDisplay(at),
			Editable:      s.LoggedIn() && (s.UserID() == cm.UserID || s.IsAdmin()),
		})
	}
	return d
}
