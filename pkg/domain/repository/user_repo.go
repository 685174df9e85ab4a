package repository

import (
	"context"

	"github.com/trucmai204/tinverse/pkg/domain/model"
)

// UserRepository 包含认证、个人资料和管理后台的用户操作
type UserRepository interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.User, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	GetUser(ctx context.Context, id int) (*model.User, error)
	UpdateProfile(ctx context.Context, id int, req model.UpdateProfileRequest) error
	ListUsers(ctx context.Context, keyword string, page, perPage int) (model.Envelope[model.User], error)
	UpdateUserRole(ctx context.Context, id, roleID int) error
	DeleteUser(ctx context.Context, id int) error
}

// ContentRepository 是远端内容 API 的全部能力
type ContentRepository interface {
	ArticleRepository
	CategoryRepository
	CommentRepository
	BookmarkRepository
	UserRepository
}
