package fallback

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trucmai204/tinverse/pkg/domain/model"
)

func fixedClock() time.Time {
	return time.Date(2025, 1, 28, 10, 30, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func TestArticles_FillsPage(t *testing.T) {
	p := NewPlaceholderProvider("/placeholder/", nil, WithClock(fixedClock))
	env := p.Articles(model.SearchQuery{Page: 2, ItemsPerPage: 9})

	require.Len(t, env.Items, 9)
	assert.Equal(t, 45, env.TotalItems)
	assert.GreaterOrEqual(t, env.TotalItems, 5*9)
	assert.Equal(t, 5, env.TotalPages)
	assert.Equal(t, 2, env.CurrentPage)

	first := env.Items[0]
	assert.Equal(t, 900010, first.ID)
	assert.Equal(t, "/placeholder/900010.png", first.Thumbnail)
	assert.Equal(t, "Tin tức nổi bật #10", first.Title)
	assert.True(t, first.Placeholder)
	assert.Equal(t, DefaultCategoryName, first.Category.Label())
	for i, a := range env.Items {
		assert.True(t, a.Placeholder)
		assert.Equal(t, IDBase+9+i+1, a.ID)
	}
}

func TestArticles_Deterministic(t *testing.T) {
	p := NewPlaceholderProvider("/img", nil, WithClock(fixedClock))
	q := model.SearchQuery{Page: 3, ItemsPerPage: 4}
	assert.Equal(t, p.Articles(q), p.Articles(q))
}

func TestArticles_RespectsKeywordAndCategory(t *testing.T) {
	names := map[int]string{3: "Đời sống"}
	p := NewPlaceholderProvider("/img", func(id int) string { return names[id] }, WithClock(fixedClock))
	env := p.Articles(model.SearchQuery{
		Filter:       model.SearchFilter{Keyword: " Tết ", CategoryID: intPtr(3)},
		Page:         1,
		ItemsPerPage: 9,
	})

	require.Len(t, env.Items, 9)
	for i, a := range env.Items {
		assert.True(t, strings.HasPrefix(a.Title, "Tết – Bản tin #"), a.Title)
		assert.Equal(t, 3, a.Category.ID)
		assert.Equal(t, "Đời sống", a.Category.Label())
		assert.Equal(t, 900001+i, a.ID)
	}
}

func TestArticles_BeyondInflatedRange(t *testing.T) {
	p := NewPlaceholderProvider("/img", nil, WithClock(fixedClock))
	env := p.Articles(model.SearchQuery{Page: 8, ItemsPerPage: 5})
	assert.Equal(t, 40, env.TotalItems)
	assert.Equal(t, 8, env.TotalPages)
}

func TestDisabled(t *testing.T) {
	d := Disabled()
	assert.False(t, d.Enabled())
	env := d.Articles(model.SearchQuery{Page: 2, ItemsPerPage: 9})
	assert.Empty(t, env.Items)
	assert.Equal(t, 2, env.CurrentPage)
}
