package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/trucmai204/tinverse/internal/pkg/strutil"
)

// Kind 是后端错误的分类
type Kind string

const (
	KindNetwork  Kind = "network"  // 连接失败、超时
	KindBusiness Kind = "business" // 4xx，后端返回的业务错误
	KindServer   Kind = "server"   // 5xx
	KindDecode   Kind = "decode"   // 响应无法解析
)

// APIError 是内容客户端对外暴露的唯一错误类型，Message 总是可以直接展示给用户的文字
type APIError struct {
	Kind     Kind
	Status   int
	Endpoint string
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// AsAPIError 从错误链中取出 APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound 判断是否为 404
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized 判断是否为 401/403
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden)
}

// UserMessage 返回适合展示给用户的错误文字
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Message
	}
	return err.Error()
}

const (
	msgNetwork = "Không thể kết nối tới máy chủ. Vui lòng kiểm tra mạng và thử lại."
	msgDecode  = "Phản hồi từ máy chủ không hợp lệ."
	msgServer  = "Máy chủ đang gặp sự cố, vui lòng thử lại sau."
)

// defaultMessage 按状态码给出默认提示
func defaultMessage(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "Dữ liệu gửi lên không hợp lệ."
	case status == http.StatusUnauthorized:
		return "Bạn cần đăng nhập để thực hiện thao tác này."
	case status == http.StatusForbidden:
		return "Bạn không có quyền thực hiện thao tác này."
	case status == http.StatusNotFound:
		return "Không tìm thấy dữ liệu yêu cầu."
	case status == http.StatusConflict:
		return "Dữ liệu đã tồn tại."
	case status == http.StatusTooManyRequests:
		return "Bạn thao tác quá nhanh, vui lòng thử lại sau."
	case status >= 500:
		return msgServer
	default:
		return fmt.Sprintf("Yêu cầu thất bại (mã %d).", status)
	}
}

func newNetworkError(endpoint string, err error) *APIError {
	return &APIError{Kind: KindNetwork, Endpoint: endpoint, Message: msgNetwork, Err: err}
}

func newDecodeError(endpoint string, status int, err error) *APIError {
	return &APIError{Kind: KindDecode, Status: status, Endpoint: endpoint, Message: msgDecode, Err: err}
}

// newStatusError 根据状态码和响应体构造错误
func newStatusError(endpoint string, status int, body []byte) *APIError {
	kind := KindBusiness
	if status >= 500 {
		kind = KindServer
	}
	msg := extractMessage(body)
	if msg == "" || (kind == KindServer && looksTechnical(msg)) {
		msg = defaultMessage(status)
	}
	return &APIError{
		Kind:     kind,
		Status:   status,
		Endpoint: endpoint,
		Message:  msg,
		Err:      fmt.Errorf("%s: HTTP %d", endpoint, status),
	}
}

// extractMessage 从各种形态的错误响应中提取可读文字：
// {message}、{title}、{errors: {field: [..]}}、纯文本
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
			return strings.TrimSpace(s)
		}
	}

	if trimmed[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
			return ""
		}
		fields := lowerKeys(obj)
		// 校验错误优先，它们比 title 更具体
		if raw, ok := fields["errors"]; ok {
			if msg := joinValidationErrors(raw); msg != "" {
				return msg
			}
		}
		for _, key := range []string{"message", "error", "detail", "title"} {
			raw, ok := fields[key]
			if !ok {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}

	// HTML 错误页不展示
	if trimmed[0] == '<' {
		return ""
	}
	return strutil.Truncate(trimmed, 300)
}

// joinValidationErrors 合并 {field: [msg...]} 或 [msg...] 形式的校验错误
func joinValidationErrors(raw json.RawMessage) string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, " ")
	}

	var byField map[string][]string
	if err := json.Unmarshal(raw, &byField); err != nil {
		return ""
	}
	fields := make([]string, 0, len(byField))
	for field := range byField {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var msgs []string
	for _, field := range fields {
		msgs = append(msgs, byField[field]...)
	}
	return strings.Join(msgs, " ")
}

// looksTechnical 过滤掉堆栈、异常类名这类不适合展示的 5xx 内容
func looksTechnical(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range []string{"exception", "stack", " at ", "sql", "null reference", "object reference"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
