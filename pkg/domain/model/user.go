package model

import "time"

// 约定的角色ID。它们只决定界面渲染什么，真正的权限校验在后端。
const (
	RoleAdmin  = 1
	RoleAuthor = 2
	RoleReader = 3
)

// Role 用户角色
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User 是登录后保存在会话中的用户对象
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName 返回界面上显示的名字
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// IsAdmin 仅作为显示提示
func (u *User) IsAdmin() bool {
	return u != nil && u.Role.ID == RoleAdmin
}

// CanWrite 作者和管理员可以看到写作后台
func (u *User) CanWrite() bool {
	return u != nil && (u.Role.ID == RoleAdmin || u.Role.ID == RoleAuthor)
}

// AuthState 是组合的认证状态记录，"当前是否登录" 都从这里回答
type AuthState struct {
	IsLoggedIn bool      `json:"isLoggedIn"`
	UserID     int       `json:"userId"`
	RoleID     int       `json:"roleId"`
	IsAdmin    bool      `json:"isAdmin"`
	IsAuthor   bool      `json:"isAuthor"`
	LoggedInAt time.Time `json:"loggedInAt"`
}

// NewAuthState 根据用户对象生成认证状态
func NewAuthState(u *User, at time.Time) AuthState {
	if u == nil {
		return AuthState{}
	}
	return AuthState{
		IsLoggedIn: true,
		UserID:     u.ID,
		RoleID:     u.Role.ID,
		IsAdmin:    u.IsAdmin(),
		IsAuthor:   u.CanWrite(),
		LoggedInAt: at,
	}
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// LoginRequest 登录表单
type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=6"`
}

// RegisterRequest 注册表单
type RegisterRequest struct {
	Username        string `form:"username" json:"username" binding:"required,min=3,max=50"`
	FullName        string `form:"fullName" json:"fullName" binding:"required,max=100"`
	Email           string `form:"email" json:"email" binding:"required,email"`
	Password        string `form:"password" json:"password" binding:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" json:"-" binding:"required,eqfield=Password"`
}

// UpdateProfileRequest 个人资料表单
type UpdateProfileRequest struct {
	FullName string `form:"fullName" json:"fullName" binding:"required,max=100"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Avatar   string `form:"avatar" json:"avatar" binding:"omitempty,url"`
}

// UpdateRoleRequest 管理员修改用户角色
type UpdateRoleRequest struct {
	RoleID int `form:"roleId" json:"roleId" binding:"required,oneof=1 2 3"`
}
