package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
)

type categoryRepoStub struct {
	items map[string]*models.Category
	seq   int
}

func newCategoryRepoStub() *categoryRepoStub {
	return &categoryRepoStub{items: map[string]*models.Category{}}
}

func (s *categoryRepoStub) Create(_ context.Context, category *models.Category) error {
	s.seq++
	category.ID = fmt.Sprintf("category-%d", s.seq)
	clone := *category
	s.items[category.ID] = &clone
	return nil
}

func (s *categoryRepoStub) GetByID(_ context.Context, id string) (*models.Category, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *item
	return &clone, nil
}

func (s *categoryRepoStub) List(_ context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	return out, nil
}

func (s *categoryRepoStub) Update(_ context.Context, category *models.Category) error {
	if _, ok := s.items[category.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *category
	s.items[category.ID] = &clone
	return nil
}

func (s *categoryRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.items, id)
	return nil
}

func TestCategoryServiceCreateSlugsName(t *testing.T) {
	repo := newCategoryRepoStub()
	recorder := &recorderStub{}
	svc := NewCategoryService(repo, recorder, nil)

	category, err := svc.Create(context.Background(), dto.CreateCategoryRequest{Name: "  Berita Daerah "}, adminClaims())
	require.NoError(t, err)
	require.Equal(t, "Berita Daerah", category.Name)
	require.Equal(t, "berita-daerah", category.Slug)
	require.Len(t, recorder.records, 1)
	require.Equal(t, "category", recorder.records[0].ModelType)
}

func TestCategoryServiceCreateRequiresName(t *testing.T) {
	svc := NewCategoryService(newCategoryRepoStub(), nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateCategoryRequest{Name: "   "}, adminClaims())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCategoryServiceUpdateReslugs(t *testing.T) {
	repo := newCategoryRepoStub()
	svc := NewCategoryService(repo, nil, nil)

	category, err := svc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Olahraga"}, adminClaims())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), category.ID, dto.UpdateCategoryRequest{Name: "Olahraga & Kesehatan"}, adminClaims())
	require.NoError(t, err)
	require.Equal(t, "olahraga-kesehatan", updated.Slug)
}

func TestCategoryServiceDeleteMissing(t *testing.T) {
	svc := NewCategoryService(newCategoryRepoStub(), nil, nil)

	err := svc.Delete(context.Background(), "nope", adminClaims())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
