package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulbliss/soulbliss-api/internal/dto"
	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/internal/repository"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
)

type memorySelectionRepo struct {
	selections map[string]models.Selection
	createErr  error
}

func (r *memorySelectionRepo) Create(_ context.Context, s *models.Selection) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.selections {
		if existing.ClassID == s.ClassID && existing.BuyerEmail == s.BuyerEmail {
			return repository.ErrDuplicate
		}
	}
	s.ID = "s-" + s.ClassID
	r.selections[s.ID] = *s
	return nil
}

func (r *memorySelectionRepo) ListByBuyer(_ context.Context, email string) ([]models.Selection, error) {
	out := []models.Selection{}
	for _, s := range r.selections {
		if s.BuyerEmail == email {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memorySelectionRepo) FindByID(_ context.Context, id string) (*models.Selection, error) {
	s, ok := r.selections[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *memorySelectionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.selections[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.selections, id)
	return nil
}

func TestSelectionServiceCreateOncePerClass(t *testing.T) {
	repo := &memorySelectionRepo{selections: map[string]models.Selection{}}
	svc := NewSelectionService(repo, nil, nil)
	req := dto.CreateSelectionRequest{ClassID: "c-1", Name: "Morning Flow", Price: decimal.NewFromInt(40), BuyerEmail: buyer}

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "s-c-1", created.ID)

	req.Image = "different.png"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	assert.Equal(t, 409, appErrors.FromError(err).Status)
}

func TestSelectionServiceValidation(t *testing.T) {
	svc := NewSelectionService(&memorySelectionRepo{selections: map[string]models.Selection{}}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateSelectionRequest{ClassID: "c-1", BuyerEmail: "nope"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestSelectionServiceStoreFailure(t *testing.T) {
	repo := &memorySelectionRepo{selections: map[string]models.Selection{}, createErr: errors.New("boom")}
	svc := NewSelectionService(repo, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateSelectionRequest{ClassID: "c-1", BuyerEmail: buyer})
	assert.True(t, errors.Is(err, appErrors.ErrStoreUnavailable))
}

func TestSelectionServiceGetAndDelete(t *testing.T) {
	repo := &memorySelectionRepo{selections: map[string]models.Selection{"S1": sampleSelection()}}
	svc := NewSelectionService(repo, nil, nil)
	ctx := context.Background()

	selection, err := svc.Get(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "C1", selection.ClassID)

	list, err := svc.ListByBuyer(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, "S1"))
	assert.True(t, errors.Is(svc.Delete(ctx, "S1"), appErrors.ErrNotFound))

	_, err = svc.Get(ctx, "S1")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
