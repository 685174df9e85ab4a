// Package comment 处理评论的发表、修改和删除。内容在发出网络请求之前先在本地校验。
package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trucmai204/tinverse/pkg/constant"
	"github.com/trucmai204/tinverse/pkg/domain/model"
)

// DefaultPerPage 评论每页条数
const DefaultPerPage = 10

// 校验失败时展示给用户的文案
var (
	MsgContentRequired = "Nội dung bình luận không được để trống."
	MsgContentTooLong  = fmt.Sprintf("Bình luận không được vượt quá %d ký tự.", model.MaxCommentLength)
)

// Repository 远端的评论接口。读操作已经降级，不返回错误。
type Repository interface {
	ListComments(ctx context.Context, articleID, page, perPage int) model.Envelope[model.Comment]
	CreateComment(ctx context.Context, articleID int, content string) error
	UpdateComment(ctx context.Context, id int, content string) error
	DeleteComment(ctx context.Context, id int) error
}

// ValidationError 表示评论没有通过本地校验
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap 使 errors.Is(err, constant.ErrValidation) 成立
func (e *ValidationError) Unwrap() error {
	return constant.ErrValidation
}

type commentInput struct {
	// validator 对字符串按字符计数，而不是按字节
	Content string `validate:"required,max=255"`
}

// Service 定义了评论相关的操作
type Service interface {
	// Validate 返回去除首尾空白后的内容
	Validate(content string) (string, error)
	Create(ctx context.Context, articleID int, content string) error
	Update(ctx context.Context, id int, content string) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, articleID, page int) model.Envelope[model.Comment]
}

type service struct {
	repo     Repository
	validate *validator.Validate
	perPage  int
}

// NewService 是评论服务的构造函数
func NewService(repo Repository, perPage int) Service {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &service{repo: repo, validate: validator.New(), perPage: perPage}
}

func (s *service) Validate(content string) (string, error) {
	in := commentInput{Content: strings.TrimSpace(content)}
	err := s.validate.Struct(in)
	if err == nil {
		return in.Content, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", fmt.Errorf("校验评论失败: %w", err)
	}
	switch verrs[0].Tag() {
	case "max":
		return "", &ValidationError{Field: "content", Message: MsgContentTooLong}
	default:
		return "", &ValidationError{Field: "content", Message: MsgContentRequired}
	}
}

func (s *service) Create(ctx context.Context, articleID int, content string) error {
	if articleID <= 0 {
		return constant.ErrBadRequest
	}
	text, err := s.Validate(content)
	if err != nil {
		return err
	}
	return s.repo.CreateComment(ctx, articleID, text)
}

func (s *service) Update(ctx context.Context, id int, content string) error {
	if id <= 0 {
		return constant.ErrBadRequest
	}
	text, err := s.Validate(content)
	if err != nil {
		return err
	}
	return s.repo.UpdateComment(ctx, id, text)
}

func (s *service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return constant.ErrBadRequest
	}
	return s.repo.DeleteComment(ctx, id)
}

func (s *service) List(ctx context.Context, articleID, page int) model.Envelope[model.Comment] {
	if page < 1 {
		page = 1
	}
	return s.repo.ListComments(ctx, articleID, page, s.perPage)
}
