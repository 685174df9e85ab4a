package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/trucmai204/tinverse/pkg/domain/model"
)

// Login 登录，返回后端确认过的用户对象。后端返回的令牌（如果有）不保存。
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	const endpoint = "auth.login"
	body := loginBody{Email: strings.TrimSpace(req.Email), Password: req.Password}
	raw, err := c.do(ctx, endpoint, http.MethodPost, "/api/Auth/Login", nil, body)
	if err != nil {
		return nil, err
	}
	return decodeAuthUser(endpoint, raw)
}

// Register 注册，返回新用户对象（后端没有返回用户时为 nil）
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	const endpoint = "auth.register"
	body := registerBody{
		Username: strings.TrimSpace(req.Username),
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}
	raw, err := c.do(ctx, endpoint, http.MethodPost, "/api/Auth/Register", nil, body)
	if err != nil {
		return nil, err
	}
	u, err := decodeAuthUser(endpoint, raw)
	if err != nil {
		// 注册成功但响应里没有用户，由调用方再登录一次
		return nil, nil
	}
	return u, nil
}

// decodeAuthUser 兼容 {User: {...}, Token}、{Data: {...}} 与直接返回用户对象
func decodeAuthUser(endpoint string, raw []byte) (*model.User, error) {
	trimmed := unwrapData(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, newDecodeError(endpoint, http.StatusOK, errEmptyBody)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, newDecodeError(endpoint, http.StatusOK, err)
	}
	if inner, ok := lowerKeys(obj)["user"]; ok {
		trimmed = inner
	}
	var p userPayload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, newDecodeError(endpoint, http.StatusOK, err)
	}
	u := p.toModel()
	if u.ID == 0 {
		return nil, newDecodeError(endpoint, http.StatusOK, fmt.Errorf("响应中缺少用户ID"))
	}
	return &u, nil
}

// GetUser 获取用户资料
func (c *Client) GetUser(ctx context.Context, id int) (*model.User, error) {
	var p userPayload
	if err := c.doJSON(ctx, "users.get", http.MethodGet, fmt.Sprintf("/api/Users/%d", id), nil, nil, &p); err != nil {
		return nil, err
	}
	u := p.toModel()
	if u.ID == 0 {
		u.ID = id
	}
	return &u, nil
}

// UpdateProfile 更新个人资料
func (c *Client) UpdateProfile(ctx context.Context, id int, req model.UpdateProfileRequest) error {
	body := profileBody{FullName: strings.TrimSpace(req.FullName), Email: strings.TrimSpace(req.Email), Avatar: strings.TrimSpace(req.Avatar)}
	return c.doJSON(ctx, "users.update", http.MethodPut, fmt.Sprintf("/api/Users/%d", id), nil, body, nil)
}

// ListUsers 管理后台的用户列表
func (c *Client) ListUsers(ctx context.Context, keyword string, page, perPage int) (model.Envelope[model.User], error) {
	const endpoint = "users.list"
	query := pageQuery(page, perPage)
	if kw := strings.TrimSpace(keyword); kw != "" {
		query.Set(model.QueryKeyword, kw)
	}
	raw, err := c.do(ctx, endpoint, http.MethodGet, "/api/Users", query, nil)
	if err != nil {
		return model.EmptyEnvelope[model.User](page, perPage), err
	}
	env, err := decodePage(raw, page, perPage, userPayload.toModel)
	if err != nil {
		return env, newDecodeError(endpoint, http.StatusOK, err)
	}
	return env, nil
}

// UpdateUserRole 修改用户角色
func (c *Client) UpdateUserRole(ctx context.Context, id, roleID int) error {
	return c.doJSON(ctx, "users.role", http.MethodPut, "/api/Users/"+strconv.Itoa(id)+"/Role", nil, roleBody{RoleID: roleID}, nil)
}

// DeleteUser 删除用户
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.doJSON(ctx, "users.delete", http.MethodDelete, fmt.Sprintf("/api/Users/%d", id), nil, nil, nil)
}
