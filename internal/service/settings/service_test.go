package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-TableBookingService/internal/service/settings/models"
	"github.com/m04kA/SMC-TableBookingService/pkg/logger"
)

type fakeRepo struct {
	items map[int64]*domain.BranchBookingSettings
	err   error
}

func (r *fakeRepo) GetByBranchID(_ context.Context, branchID int64) (*domain.BranchBookingSettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.items[branchID]
	if !ok {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return s, nil
}

func (r *fakeRepo) Upsert(_ context.Context, s *domain.BranchBookingSettings) (*domain.BranchBookingSettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.items[s.BranchID] = s
	return s, nil
}

func validRequest() *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		OpenTime:         "12:00",
		CloseTime:        "23:00",
		IntervalMinutes:  30,
		MaxSeatsPerSlot:  10,
		MaxTablesPerSlot: 4,
	}
}

func TestService_UpsertAndGet(t *testing.T) {
	repo := &fakeRepo{items: map[int64]*domain.BranchBookingSettings{}}
	svc := NewService(repo, logger.NewNop())

	saved, err := svc.Upsert(context.Background(), 7, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "12:00", saved.OpenTime)
	assert.Equal(t, 30, saved.IntervalMinutes)

	got, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.BranchID)
	assert.Equal(t, "23:00", got.CloseTime)
}

func TestService_UpsertValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.UpdateSettingsRequest)
	}{
		{"open after close", func(r *models.UpdateSettingsRequest) { r.OpenTime = "23:30" }},
		{"open equals close", func(r *models.UpdateSettingsRequest) { r.OpenTime = "23:00" }},
		{"bad time format", func(r *models.UpdateSettingsRequest) { r.CloseTime = "11pm" }},
		{"zero interval", func(r *models.UpdateSettingsRequest) { r.IntervalMinutes = 0 }},
		{"zero seats", func(r *models.UpdateSettingsRequest) { r.MaxSeatsPerSlot = 0 }},
		{"zero tables", func(r *models.UpdateSettingsRequest) { r.MaxTablesPerSlot = 0 }},
		{"negative advance days", func(r *models.UpdateSettingsRequest) { r.AdvanceBookingDays = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{items: map[int64]*domain.BranchBookingSettings{}}
			svc := NewService(repo, logger.NewNop())
			req := validRequest()
			tt.mutate(req)

			_, err := svc.Upsert(context.Background(), 7, req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrInvalidSettings)
			assert.Empty(t, repo.items)
		})
	}
}

func TestService_GetNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{items: map[int64]*domain.BranchBookingSettings{}}, logger.NewNop())

	_, err := svc.Get(context.Background(), 42)

	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestService_RepositoryError(t *testing.T) {
	svc := NewService(&fakeRepo{err: errors.New("connection reset")}, logger.NewNop())

	_, err := svc.Get(context.Background(), 7)
	assert.ErrorIs(t, err, ErrInternal)

	_, err = svc.Upsert(context.Background(), 7, validRequest())
	assert.ErrorIs(t, err, ErrInternal)
}
