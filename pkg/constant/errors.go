package constant

import "errors"

// 定义业务逻辑相关的标准错误
var (
	// ErrNotFound 表示资源未找到，可以由 Handler 转换为 404
	ErrNotFound = errors.New("资源未找到")

	// ErrForbidden 表示无权访问，可以由 Handler 转换为 403
	ErrForbidden = errors.New("操作禁止")

	// ErrBadRequest 表示请求参数错误，可以由 Handler 转换为 400
	ErrBadRequest = errors.New("错误的请求")

	// ErrUnauthorized 表示未登录，可以由 Handler 转换为 401 或重定向到登录页
	ErrUnauthorized = errors.New("未经授权的访问")

	// ErrInvalidToken 表示会话令牌无效或已过期
	ErrInvalidToken = errors.New("无效令牌")

	// ErrValidation 表示表单在发出网络请求之前就未通过校验
	ErrValidation = errors.New("表单校验失败")

	// ErrInvalidPublicID 表示无效的公共ID，可以由 Handler 转换为 400
	ErrInvalidPublicID = errors.New("无效的公共ID")

	// ErrListNotFound 表示列表实例不存在或已过期，前端需要重新挂载
	ErrListNotFound = errors.New("列表实例不存在或已过期")
)
