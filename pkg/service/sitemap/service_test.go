package sitemap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/idgen"
)

type pagedSource struct {
	pages      [][]model.Article
	categories []model.Category
	requested  []int
}

func (p *pagedSource) SearchArticles(_ context.Context, q model.SearchQuery) model.Envelope[model.Article] {
	p.requested = append(p.requested, q.Page)
	if q.Page > len(p.pages) {
		return model.Envelope[model.Article]{}
	}
	return model.Envelope[model.Article]{Items: p.pages[q.Page-1], TotalPages: len(p.pages), CurrentPage: q.Page}
}

func (p *pagedSource) Categories() []model.Category { return p.categories }

func TestGenerateSitemap(t *testing.T) {
	require.NoError(t, idgen.InitSqidsEncoderWithSeed(""))
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	src := &pagedSource{
		pages: [][]model.Article{
			{{ID: 1, UpdatedAt: now.Add(-time.Hour)}, {ID: 2, UpdatedAt: now.Add(-60 * 24 * time.Hour)}},
			{{ID: 3, UpdatedAt: now.Add(-3 * 24 * time.Hour)}, {ID: -5, Placeholder: true}},
		},
		categories: []model.Category{{ID: 4, Name: "Thể thao"}},
	}
	svc := &service{articles: src, now: func() time.Time { return now }}

	set := svc.GenerateSitemap(context.Background(), "https://tin.example")
	assert.Equal(t, []int{1, 2}, src.requested)
	assert.Equal(t, xmlns, set.Xmlns)
	require.Len(t, set.URLs, 6)

	assert.Equal(t, "https://tin.example/", set.URLs[0].Location)
	assert.Equal(t, "https://tin.example/articles?categoryId=4", set.URLs[2].Location)
	assert.Equal(t, "https://tin.example"+idgen.ArticlePath(1), set.URLs[3].Location)
	assert.Equal(t, string(ChangeFreqDaily), set.URLs[3].ChangeFreq)
	assert.Equal(t, string(ChangeFreqYearly), set.URLs[4].ChangeFreq)
	assert.Equal(t, string(ChangeFreqWeekly), set.URLs[5].ChangeFreq)
	assert.Empty(t, set.URLs[2].LastModified)
}

func TestGenerateSitemap_BackendDown(t *testing.T) {
	svc := NewService(&pagedSource{})
	set := svc.GenerateSitemap(context.Background(), "http://localhost")
	assert.Len(t, set.URLs, 2)
}

func TestGenerateRobots(t *testing.T) {
	robots := NewService(&pagedSource{}).GenerateRobots("https://tin.example")
	assert.Contains(t, robots, "Sitemap: https://tin.example/sitemap.xml")
	assert.Contains(t, robots, "Disallow: /admin/")
}
