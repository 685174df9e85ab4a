package comment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trucmai204/tinverse/pkg/constant"
	"github.com/trucmai204/tinverse/pkg/domain/model"
)

type fakeRepo struct {
	created []string
	updated []string
	deleted []int
	err     error
	listed  [3]int
}

func (f *fakeRepo) ListComments(_ context.Context, articleID, page, perPage int) model.Envelope[model.Comment] {
	f.listed = [3]int{articleID, page, perPage}
	return model.EmptyEnvelope[model.Comment](page, perPage)
}

func (f *fakeRepo) CreateComment(_ context.Context, _ int, content string) error {
	f.created = append(f.created, content)
	return f.err
}

func (f *fakeRepo) UpdateComment(_ context.Context, _ int, content string) error {
	f.updated = append(f.updated, content)
	return f.err
}

func (f *fakeRepo) DeleteComment(_ context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func TestCreate_RejectsTooLongBeforeNetworkCall(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, 0)

	err := svc.Create(context.Background(), 1, strings.Repeat("a", 256))
	require.Error(t, err)
	assert.ErrorIs(t, err, constant.ErrValidation)
	assert.Contains(t, err.Error(), "255")
	assert.Empty(t, repo.created, "校验失败时不发请求")
}

func TestValidate_CountsCharactersNotBytes(t *testing.T) {
	svc := NewService(&fakeRepo{}, 0)

	// 每个字符占多个字节
	text, err := svc.Validate(strings.Repeat("ế", 255))
	require.NoError(t, err)
	assert.Len(t, []rune(text), 255)

	_, err = svc.Validate(strings.Repeat("ế", 256))
	assert.ErrorIs(t, err, constant.ErrValidation)
}

func TestValidate_Required(t *testing.T) {
	svc := NewService(&fakeRepo{}, 0)

	_, err := svc.Validate("   \n ")
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, MsgContentRequired, verr.Message)
}

func TestCreate_TrimsAndPropagatesBackendError(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, 0)

	require.NoError(t, svc.Create(context.Background(), 3, "  Bài viết hay!  "))
	assert.Equal(t, []string{"Bài viết hay!"}, repo.created)

	repo.err = errors.New("Bạn cần đăng nhập để bình luận")
	err := svc.Create(context.Background(), 3, "ok")
	assert.EqualError(t, err, "Bạn cần đăng nhập để bình luận")
}

func TestUpdateAndDelete(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, 0)
	ctx := context.Background()

	require.NoError(t, svc.Update(ctx, 9, "sửa lại"))
	assert.Equal(t, []string{"sửa lại"}, repo.updated)
	assert.Error(t, svc.Update(ctx, 9, strings.Repeat("x", 300)))
	assert.Len(t, repo.updated, 1)

	require.NoError(t, svc.Delete(ctx, 9))
	assert.Equal(t, []int{9}, repo.deleted)
	assert.ErrorIs(t, svc.Delete(ctx, 0), constant.ErrBadRequest)
}

func TestList(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, 5)
	env := svc.List(context.Background(), 4, 0)
	assert.Equal(t, [3]int{4, 1, 5}, repo.listed)
	assert.Equal(t, 1, env.CurrentPage)
}
