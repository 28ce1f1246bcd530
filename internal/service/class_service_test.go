package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulbliss/soulbliss-api/internal/dto"
	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/internal/repository"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
)

type memoryClassRepo struct {
	classes   map[string]*models.Class
	listCalls int
}

func (r *memoryClassRepo) List(_ context.Context, filter models.ClassFilter) ([]models.Class, error) {
	r.listCalls++
	out := []models.Class{}
	for _, c := range r.classes {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Email != "" && c.Email != filter.Email {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *memoryClassRepo) FindByID(_ context.Context, id string) (*models.Class, error) {
	c, ok := r.classes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *c
	return &copy, nil
}

func (r *memoryClassRepo) Create(_ context.Context, class *models.Class) error {
	class.ID = "c-new"
	copy := *class
	r.classes[class.ID] = &copy
	return nil
}

func (r *memoryClassRepo) SetStatus(_ context.Context, id string, status models.ClassStatus) error {
	c, ok := r.classes[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Status = status
	return nil
}

func (r *memoryClassRepo) SetFeedback(_ context.Context, id, feedback string) error {
	c, ok := r.classes[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Feedback = &feedback
	return nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func (r *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := r.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (r *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.entries[key] = raw
	return nil
}

func (r *memoryCacheRepo) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(r.entries, k)
	}
	return nil
}

func newClassFixture() (*ClassService, *memoryClassRepo, *memoryCacheRepo) {
	repo := &memoryClassRepo{classes: map[string]*models.Class{
		"c-1": {ID: "c-1", Name: "Morning Flow", Email: "yogi@soulbliss.io", Status: models.ClassApproved, Price: decimal.NewFromInt(40)},
		"c-2": {ID: "c-2", Name: "Breathwork", Email: "yogi@soulbliss.io", Status: models.ClassPending, Price: decimal.NewFromInt(20)},
	}}
	cacheRepo := &memoryCacheRepo{entries: map[string][]byte{}}
	cache := NewCacheService(cacheRepo, NewMetricsService(), time.Minute, nil, true)
	return NewClassService(repo, cache, nil, nil), repo, cacheRepo
}

func TestClassServiceCreateForcesPending(t *testing.T) {
	svc, _, _ := newClassFixture()

	class, err := svc.Create(context.Background(), dto.CreateClassRequest{
		Name:           "Yin Basics",
		Email:          "yogi@soulbliss.io",
		AvailableSeats: 8,
		Price:          decimal.RequireFromString("15.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ClassPending, class.Status)
	assert.Zero(t, class.Enrolled)
}

func TestClassServiceCreateRejectsNegativePrice(t *testing.T) {
	svc, _, _ := newClassFixture()

	_, err := svc.Create(context.Background(), dto.CreateClassRequest{Name: "Free", Email: "yogi@soulbliss.io", Price: decimal.NewFromInt(-1)})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestClassServiceApprovedListingIsCachedAndInvalidated(t *testing.T) {
	svc, repo, cacheRepo := newClassFixture()
	ctx := context.Background()

	classes, err := svc.ListApproved(ctx)
	require.NoError(t, err)
	assert.Len(t, classes, 1)

	_, err = svc.ListApproved(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
	assert.Contains(t, cacheRepo.entries, approvedClassesCacheKey)

	require.NoError(t, svc.Approve(ctx, "c-2"))
	assert.NotContains(t, cacheRepo.entries, approvedClassesCacheKey)

	classes, err = svc.ListApproved(ctx)
	require.NoError(t, err)
	assert.Len(t, classes, 2)
	assert.Equal(t, 2, repo.listCalls)
}

func TestClassServiceStatusAndFeedbackNotFound(t *testing.T) {
	svc, _, _ := newClassFixture()
	ctx := context.Background()

	assert.True(t, errors.Is(svc.Deny(ctx, "missing"), appErrors.ErrNotFound))
	assert.True(t, errors.Is(svc.SetFeedback(ctx, "missing", dto.FeedbackRequest{Feedback: "hi"}), appErrors.ErrNotFound))
	assert.True(t, errors.Is(svc.SetFeedback(ctx, "c-1", dto.FeedbackRequest{Feedback: "  "}), appErrors.ErrValidation))

	_, err := svc.Get(ctx, "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestClassServiceWithoutCache(t *testing.T) {
	repo := &memoryClassRepo{classes: map[string]*models.Class{
		"c-1": {ID: "c-1", Status: models.ClassApproved},
	}}
	svc := NewClassService(repo, nil, nil, nil)

	_, err := svc.ListApproved(context.Background())
	require.NoError(t, err)
	_, err = svc.ListApproved(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	require.NoError(t, svc.Approve(context.Background(), "c-1"))
}
