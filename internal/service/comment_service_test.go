package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
)

type commentRepoStub struct {
	items      map[string]*models.Comment
	listFilter models.CommentFilter
}

func newCommentRepoStub() *commentRepoStub {
	return &commentRepoStub{items: make(map[string]*models.Comment)}
}

func (r *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = "comment-1"
	}
	copy := *comment
	r.items[comment.ID] = &copy
	return nil
}

func (r *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if c, ok := r.items[id]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r *commentRepoStub) UpdateModeration(ctx context.Context, comment *models.Comment) error {
	if _, ok := r.items[comment.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *comment
	r.items[comment.ID] = &copy
	return nil
}

func (r *commentRepoStub) List(ctx context.Context, filter models.CommentFilter) ([]models.Comment, int, error) {
	r.listFilter = filter
	var result []models.Comment
	for _, c := range r.items {
		result = append(result, *c)
	}
	return result, len(result), nil
}

func (r *commentRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func commentNewsStubWith(published bool) *newsRepoStub {
	repo := newNewsRepoStub()
	repo.items["news-1"] = &models.News{ID: "news-1", IsPublished: published}
	return repo
}

func TestCommentServiceCreateOnPublishedOnly(t *testing.T) {
	repo := newCommentRepoStub()
	svc := NewCommentService(repo, commentNewsStubWith(false), nil, nil)

	_, err := svc.Create(context.Background(), "news-1", dto.CreateCommentRequest{Body: "hi"}, nil)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCommentServiceCreateAnonymousDefaultsName(t *testing.T) {
	repo := newCommentRepoStub()
	svc := NewCommentService(repo, commentNewsStubWith(true), nil, nil)

	comment, err := svc.Create(context.Background(), "news-1", dto.CreateCommentRequest{Body: "nice piece"}, nil)
	require.NoError(t, err)
	require.Equal(t, models.CommentAuthorAnonymous, comment.UserType)
	require.Equal(t, "Anonymous", comment.AuthorName)
	require.Nil(t, comment.UserID)
	require.False(t, comment.IsApproved)
}

func TestCommentServiceCreateStaffCarriesRole(t *testing.T) {
	repo := newCommentRepoStub()
	svc := NewCommentService(repo, commentNewsStubWith(true), nil, nil)

	actor := writerClaims("writer-1")
	actor.FullName = "Dian Putri"
	comment, err := svc.Create(context.Background(), "news-1", dto.CreateCommentRequest{Body: "context below"}, actor)
	require.NoError(t, err)
	require.Equal(t, models.CommentAuthorWriter, comment.UserType)
	require.Equal(t, "Dian Putri", comment.AuthorName)
	require.Equal(t, "writer-1", *comment.UserID)
}

func TestCommentServiceModerationFlagsAreIndependent(t *testing.T) {
	repo := newCommentRepoStub()
	svc := NewCommentService(repo, commentNewsStubWith(true), nil, nil)
	repo.items["c1"] = &models.Comment{ID: "c1", NewsID: "news-1", Body: "hello"}

	approved, err := svc.Approve(context.Background(), "c1", adminClaims())
	require.NoError(t, err)
	require.True(t, approved.IsApproved)
	require.NotNil(t, approved.ApprovedAt)
	firstStamp := *approved.ApprovedAt

	// Marking spam does not clear the approval.
	flagged, err := svc.MarkSpam(context.Background(), "c1", adminClaims())
	require.NoError(t, err)
	require.True(t, flagged.IsSpam)
	require.True(t, flagged.IsApproved)

	// A second approval keeps the original stamp.
	again, err := svc.Approve(context.Background(), "c1", adminClaims())
	require.NoError(t, err)
	require.Equal(t, firstStamp, *again.ApprovedAt)
}

func TestCommentServiceListPublicFilters(t *testing.T) {
	repo := newCommentRepoStub()
	svc := NewCommentService(repo, commentNewsStubWith(true), nil, nil)

	_, _, err := svc.ListPublic(context.Background(), "news-1", 1, 20)
	require.NoError(t, err)
	require.Equal(t, "news-1", repo.listFilter.NewsID)
	require.NotNil(t, repo.listFilter.Approved)
	require.True(t, *repo.listFilter.Approved)
	require.NotNil(t, repo.listFilter.Spam)
	require.False(t, *repo.listFilter.Spam)
}
