/*
 * @Description: 统一的 JSON 返回结构和 htmx 片段响应辅助函数
 */
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf16"

	"github.com/gin-gonic/gin"
)

// Response 是统一的API返回结构体
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}, message string) {
	SuccessWithStatus(c, http.StatusOK, data, message)
}

// SuccessWithStatus 成功响应，但允许自定义 HTTP 状态码
func SuccessWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Fail 失败响应
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// htmx 使用的请求头和响应头
const (
	HeaderHXRequest  = "HX-Request"
	HeaderHXTrigger  = "HX-Trigger"
	HeaderHXPushURL  = "HX-Push-Url"
	HeaderHXRedirect = "HX-Redirect"
	HeaderHXReswap   = "HX-Reswap"
)

// 提示消息的级别
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast 是通过 HX-Trigger 发给页面的提示消息
type Toast struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// IsHTMX 判断请求是否来自页面内的片段交互
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader(HeaderHXRequest) == "true"
}

// ShowToast 让页面弹出一条提示，可与任意片段响应一起使用
func ShowToast(c *gin.Context, level, message string) {
	payload, err := json.Marshal(map[string]Toast{"toast": {Level: level, Message: message}})
	if err != nil {
		return
	}
	c.Header(HeaderHXTrigger, escapeNonASCII(string(payload)))
}

// escapeNonASCII 响应头按 latin1 解码，越南语字符需要转成 \uXXXX
func escapeNonASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		if r > 0xFFFF {
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&b, "\\u%04x\\u%04x", r1, r2)
			continue
		}
		fmt.Fprintf(&b, "\\u%04x", r)
	}
	return b.String()
}

// PushURL 让浏览器地址栏与当前筛选和分页状态保持一致
func PushURL(c *gin.Context, url string) {
	c.Header(HeaderHXPushURL, url)
}

// NoSwap 响应已经过期的片段请求，页面保持原样
func NoSwap(c *gin.Context) {
	c.Header(HeaderHXReswap, "none")
	c.Status(http.StatusNoContent)
}

// Redirect 片段请求使用 HX-Redirect，普通表单提交使用 303
func Redirect(c *gin.Context, location string) {
	if IsHTMX(c) {
		c.Header(HeaderHXRedirect, location)
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}

// FailToast 片段请求失败时返回提示，普通请求返回 JSON
func FailToast(c *gin.Context, code int, message string) {
	if IsHTMX(c) {
		ShowToast(c, ToastError, message)
		c.Header(HeaderHXReswap, "none")
		c.Status(code)
		return
	}
	Fail(c, code, message)
}
