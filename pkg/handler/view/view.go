// Package view 为页面处理器提供公共的模板数据和表单错误文案
package view

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/trucmai204/tinverse/internal/infra/backend"
	"github.com/trucmai204/tinverse/pkg/constant"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/response"
	"github.com/trucmai204/tinverse/pkg/service/comment"
	"github.com/trucmai204/tinverse/pkg/service/session"
)

// 通用文案
const (
	MsgNotFound     = "Không tìm thấy nội dung bạn yêu cầu."
	MsgInvalidForm  = "Dữ liệu không hợp lệ."
	MsgUnknownError = "Đã có lỗi xảy ra, vui lòng thử lại."
)

// CategorySource 提供导航栏的分类菜单
type CategorySource interface {
	Categories() []model.Category
}

// Renderer 负责整页渲染，每个页面都会带上会话和分类菜单
type Renderer struct {
	categories CategorySource
}

func NewRenderer(categories CategorySource) *Renderer {
	return &Renderer{categories: categories}
}

// Categories 当前的分类菜单
func (r *Renderer) Categories() []model.Category {
	if r.categories == nil {
		return nil
	}
	return r.categories.Categories()
}

// Page 渲染一个完整页面
func (r *Renderer) Page(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Session"] = session.FromContext(c)
	data["Path"] = c.Request.URL.Path
	if _, ok := data["Categories"]; !ok {
		data["Categories"] = r.Categories()
	}
	c.HTML(status, name, data)
}

// Fragment 渲染页面内替换的片段
func (r *Renderer) Fragment(c *gin.Context, status int, name string, data interface{}) {
	c.HTML(status, name, data)
}

// Error 片段请求返回提示，整页请求渲染错误页
func (r *Renderer) Error(c *gin.Context, status int, message string) {
	if response.IsHTMX(c) {
		response.FailToast(c, status, message)
		return
	}
	r.Page(c, status, "error.html", fmt.Sprintf("%d", status), gin.H{"Message": message})
}

// NotFound 404 页面
func (r *Renderer) NotFound(c *gin.Context) {
	r.Error(c, http.StatusNotFound, MsgNotFound)
}

// 字段名在错误提示中的显示名称
var fieldLabels = map[string]string{
	"Email":           "Email",
	"Password":        "Mật khẩu",
	"ConfirmPassword": "Mật khẩu nhập lại",
	"Username":        "Tên đăng nhập",
	"FullName":        "Họ và tên",
	"Avatar":          "Ảnh đại diện",
	"Title":           "Tiêu đề",
	"Summary":         "Tóm tắt",
	"Content":         "Nội dung",
	"Thumbnail":       "Ảnh đại diện",
	"CategoryID":      "Danh mục",
	"Name":            "Tên danh mục",
	"RoleID":          "Vai trò",
}

// BindingMessage 把表单绑定错误转换成一条可读的提示
func BindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return MsgInvalidForm
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, " ")
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s không được để trống.", label)
	case "email":
		return fmt.Sprintf("%s không đúng định dạng.", label)
	case "url":
		return fmt.Sprintf("%s phải là một đường dẫn hợp lệ.", label)
	case "min":
		return fmt.Sprintf("%s phải có ít nhất %s ký tự.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s không được vượt quá %s ký tự.", label, fe.Param())
	case "eqfield":
		return "Mật khẩu nhập lại không khớp."
	case "gt", "oneof":
		return fmt.Sprintf("%s không hợp lệ.", label)
	default:
		return fmt.Sprintf("%s không hợp lệ.", label)
	}
}

// ErrorMessage 变更操作失败时给用户看的文字，后端错误直接使用后端的消息
func ErrorMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var verr *comment.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return MsgUnknownError
}

// ErrorStatus 变更失败时的响应状态码
func ErrorStatus(err error) int {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 {
		return apiErr.Status
	}
	if errors.Is(err, constant.ErrValidation) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

// SiteURL 返回站点的对外地址。未配置时由请求推断，优先使用 X-Forwarded-Proto。
func SiteURL(c *gin.Context, configured string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
