package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/trucmai204/tinverse/pkg/domain/model"
)

// 后端使用 PascalCase 字段名。encoding/json 匹配字段名时不区分大小写，
// 所以这些载荷同样能读 camelCase 的响应。

// flexTime 兼容带时区与不带时区（按 UTC 处理）的时间字符串
type flexTime struct {
	time.Time
}

var flexTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` || s == "" {
		t.Time = time.Time{}
		return nil
	}
	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return fmt.Errorf("无效的时间字段: %s", s)
	}
	for _, layout := range flexTimeLayouts {
		if parsed, err := time.Parse(layout, unquoted); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("无法解析时间: %s", unquoted)
}

// nameRef 兼容字符串或 {FullName, Username, Name} 对象形式的作者字段
type nameRef struct {
	ID   int
	Name string
}

func (r *nameRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = nameRef{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*r = nameRef{Name: strings.TrimSpace(s)}
		return nil
	}
	if trimmed[0] != '{' {
		// 只给了作者ID
		id, _ := strconv.Atoi(string(trimmed))
		*r = nameRef{ID: id}
		return nil
	}
	var obj struct {
		ID       int    `json:"Id"`
		UserID   int    `json:"UserId"`
		FullName string `json:"FullName"`
		Username string `json:"Username"`
		Name     string `json:"Name"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	*r = nameRef{ID: firstPositive(obj.UserID, obj.ID), Name: firstNonEmpty(obj.FullName, obj.Name, obj.Username)}
	return nil
}

// roleRef 兼容数字、角色名或 {RoleId, RoleName} 对象
type roleRef struct {
	ID   int
	Name string
}

func (r *roleRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = roleRef{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*r = roleRef{ID: roleIDFromName(s), Name: s}
	case '{':
		var obj struct {
			ID       int    `json:"Id"`
			RoleID   int    `json:"RoleId"`
			Name     string `json:"Name"`
			RoleName string `json:"RoleName"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		*r = roleRef{ID: firstPositive(obj.RoleID, obj.ID), Name: firstNonEmpty(obj.RoleName, obj.Name)}
	default:
		id, err := strconv.Atoi(string(trimmed))
		if err != nil {
			return fmt.Errorf("不支持的角色字段格式: %s", string(trimmed))
		}
		*r = roleRef{ID: id}
	}
	return nil
}

func roleIDFromName(name string) int {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "admin", "administrator", "quản trị viên":
		return model.RoleAdmin
	case "author", "writer", "tác giả":
		return model.RoleAuthor
	case "reader", "user", "độc giả":
		return model.RoleReader
	}
	return 0
}

func roleName(id int) string {
	switch id {
	case model.RoleAdmin:
		return "Quản trị viên"
	case model.RoleAuthor:
		return "Tác giả"
	case model.RoleReader:
		return "Độc giả"
	}
	return ""
}

// articlePayload 文章载荷
type articlePayload struct {
	ArticleID    int               `json:"ArticleId"`
	ID           int               `json:"Id"`
	Title        string            `json:"Title"`
	Thumbnail    string            `json:"Thumbnail"`
	ThumbnailURL string            `json:"ThumbnailUrl"`
	ImageURL     string            `json:"ImageUrl"`
	UpdatedAt    flexTime          `json:"UpdatedAt"`
	CreatedAt    flexTime          `json:"CreatedAt"`
	Category     model.CategoryRef `json:"Category"`
	CategoryID   int               `json:"CategoryId"`
	CategoryName string            `json:"CategoryName"`
	Author       nameRef           `json:"Author"`
	AuthorName   string            `json:"AuthorName"`
	User         nameRef           `json:"User"`
	UserID       int               `json:"UserId"`
	AuthorID     int               `json:"AuthorId"`
	Summary      string            `json:"Summary"`
	Description  string            `json:"Description"`
	Content      string            `json:"Content"`
	IsPublished  bool              `json:"IsPublished"`
	ViewCount    int               `json:"ViewCount"`
}

// categoryPayload 分类载荷
type categoryPayload struct {
	CategoryID   int    `json:"CategoryId"`
	ID           int    `json:"Id"`
	Name         string `json:"Name"`
	CategoryName string `json:"CategoryName"`
}

func (p categoryPayload) toModel() model.Category {
	return model.Category{
		ID:   firstPositive(p.CategoryID, p.ID),
		Name: strings.TrimSpace(firstNonEmpty(p.Name, p.CategoryName)),
	}
}

// commentPayload 评论载荷
type commentPayload struct {
	CommentID int      `json:"CommentId"`
	ID        int      `json:"Id"`
	ArticleID int      `json:"ArticleId"`
	UserID    int      `json:"UserId"`
	User      nameRef  `json:"User"`
	UserName  string   `json:"UserName"`
	FullName  string   `json:"FullName"`
	Avatar    string   `json:"Avatar"`
	Content   string   `json:"Content"`
	CreatedAt flexTime `json:"CreatedAt"`
	UpdatedAt flexTime `json:"UpdatedAt"`
}

func (p commentPayload) toModel() model.Comment {
	c := model.Comment{
		ID:         firstPositive(p.CommentID, p.ID),
		ArticleID:  p.ArticleID,
		UserID:     firstPositive(p.UserID, p.User.ID),
		AuthorName: firstNonEmpty(p.FullName, p.User.Name, p.UserName),
		Avatar:     p.Avatar,
		Content:    p.Content,
		CreatedAt:  p.CreatedAt.Time,
		UpdatedAt:  p.UpdatedAt.Time,
	}
	if c.AuthorName == "" {
		c.AuthorName = "Ẩn danh"
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	return c
}

// bookmarkPayload 收藏载荷。有的接口直接返回文章列表，这时文章字段平铺在外层。
type bookmarkPayload struct {
	BookmarkID int             `json:"BookmarkId"`
	ID         int             `json:"Id"`
	UserID     int             `json:"UserId"`
	ArticleID  int             `json:"ArticleId"`
	Article    *articlePayload `json:"Article"`
	CreatedAt  flexTime        `json:"CreatedAt"`
	flat       *articlePayload
}

func (p *bookmarkPayload) UnmarshalJSON(data []byte) error {
	type alias bookmarkPayload
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = bookmarkPayload(a)
	if p.Article == nil {
		var flat articlePayload
		if err := json.Unmarshal(data, &flat); err == nil && flat.Title != "" {
			p.flat = &flat
		}
	}
	return nil
}

func (p bookmarkPayload) toModel() model.Bookmark {
	b := model.Bookmark{
		ID:        firstPositive(p.BookmarkID, p.ID),
		UserID:    p.UserID,
		ArticleID: p.ArticleID,
		CreatedAt: p.CreatedAt.Time,
	}
	switch {
	case p.Article != nil:
		b.Article = p.Article.toModel()
	case p.flat != nil:
		b.Article = p.flat.toModel()
		// 平铺时外层的 Id 是文章ID
		b.ID = p.BookmarkID
	}
	if b.ArticleID == 0 {
		b.ArticleID = b.Article.ID
	}
	if b.Article.ID == 0 {
		b.Article.ID = b.ArticleID
	}
	return b
}

// userPayload 用户载荷
type userPayload struct {
	UserID    int      `json:"UserId"`
	ID        int      `json:"Id"`
	Username  string   `json:"Username"`
	FullName  string   `json:"FullName"`
	Email     string   `json:"Email"`
	Avatar    string   `json:"Avatar"`
	AvatarURL string   `json:"AvatarUrl"`
	RoleID    int      `json:"RoleId"`
	Role      roleRef  `json:"Role"`
	RoleName  string   `json:"RoleName"`
	CreatedAt flexTime `json:"CreatedAt"`
}

func (p userPayload) toModel() model.User {
	roleID := firstPositive(p.RoleID, p.Role.ID, roleIDFromName(p.RoleName))
	name := firstNonEmpty(p.RoleName, p.Role.Name, roleName(roleID))
	return model.User{
		ID:        firstPositive(p.UserID, p.ID),
		Username:  strings.TrimSpace(p.Username),
		FullName:  p.FullName,
		Email:     p.Email,
		Avatar:    firstNonEmpty(p.Avatar, p.AvatarURL),
		Role:      model.Role{ID: roleID, Name: name},
		CreatedAt: p.CreatedAt.Time,
	}
}

// --- 请求体 ---

type articleBody struct {
	Title       string `json:"Title"`
	Summary     string `json:"Summary,omitempty"`
	Content     string `json:"Content"`
	Thumbnail   string `json:"Thumbnail,omitempty"`
	CategoryID  int    `json:"CategoryId"`
	IsPublished bool   `json:"IsPublished"`
}

type categoryBody struct {
	Name        string `json:"Name"`
	Description string `json:"Description,omitempty"`
}

type commentBody struct {
	ArticleID int    `json:"ArticleId,omitempty"`
	Content   string `json:"Content"`
}

type bookmarkBody struct {
	ArticleID int `json:"ArticleId"`
}

type loginBody struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

type registerBody struct {
	Username string `json:"Username"`
	FullName string `json:"FullName"`
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

type profileBody struct {
	FullName string `json:"FullName"`
	Email    string `json:"Email"`
	Avatar   string `json:"Avatar,omitempty"`
}

type roleBody struct {
	RoleID int `json:"RoleId"`
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
