package repository

import (
	"context"

	"github.com/trucmai204/tinverse/pkg/domain/model"
)

type CommentRepository interface {
	ListComments(ctx context.Context, articleID, page, perPage int) (model.Envelope[model.Comment], error)
	CreateComment(ctx context.Context, articleID int, content string) error
	UpdateComment(ctx context.Context, id int, content string) error
	DeleteComment(ctx context.Context, id int) error
}

// BookmarkRepository 收藏关系
type BookmarkRepository interface {
	ListBookmarks(ctx context.Context, userID, page, perPage int) (model.Envelope[model.Bookmark], error)
	CheckBookmark(ctx context.Context, articleID int) (bool, error)
	AddBookmark(ctx context.Context, articleID int) error
	RemoveBookmark(ctx context.Context, articleID int) error
}
