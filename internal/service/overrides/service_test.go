package overrides

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	overrideRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/override"
	"github.com/m04kA/SMC-TableBookingService/internal/service/overrides/models"
	"github.com/m04kA/SMC-TableBookingService/pkg/logger"
	"github.com/m04kA/SMC-TableBookingService/pkg/ptr"
)

type fakeRepo struct {
	items  map[int64]*domain.BookingOverride
	nextID int64
	err    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[int64]*domain.BookingOverride{}}
}

func (r *fakeRepo) Create(_ context.Context, o *domain.BookingOverride) (*domain.BookingOverride, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	o.ID = r.nextID
	r.items[o.ID] = o
	return o, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.BookingOverride, error) {
	if r.err != nil {
		return nil, r.err
	}
	o, ok := r.items[id]
	if !ok {
		return nil, overrideRepo.ErrOverrideNotFound
	}
	return o, nil
}

func (r *fakeRepo) ListByBranch(_ context.Context, branchID int64, date *time.Time) ([]*domain.BookingOverride, error) {
	var result []*domain.BookingOverride
	for _, o := range r.items {
		if o.BranchID != branchID {
			continue
		}
		if date != nil && !domain.SameDate(o.Date, *date) {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

func (r *fakeRepo) Update(_ context.Context, o *domain.BookingOverride) (*domain.BookingOverride, error) {
	if _, ok := r.items[o.ID]; !ok {
		return nil, overrideRepo.ErrOverrideNotFound
	}
	r.items[o.ID] = o
	return o, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return overrideRepo.ErrOverrideNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeCache struct {
	invalidated []string
}

func (c *fakeCache) Invalidate(_ context.Context, _ int64, dates ...time.Time) error {
	for _, d := range dates {
		c.invalidated = append(c.invalidated, d.Format(domain.DateFormat))
	}
	return nil
}

func closedEvening() *models.OverrideRequest {
	return &models.OverrideRequest{
		Date:         "2025-10-15",
		StartTime:    ptr.Ptr("18:00"),
		EndTime:      ptr.Ptr("19:00"),
		OverrideType: "closed",
	}
}

func TestService_CreateAndList(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	svc := NewService(repo, cache, logger.NewNop())

	created, err := svc.Create(context.Background(), 1, closedEvening())
	require.NoError(t, err)
	assert.Equal(t, "closed", created.OverrideType)
	assert.Equal(t, "18:00", *created.StartTime)
	assert.Equal(t, []string{"2025-10-15"}, cache.invalidated)

	list, err := svc.List(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	other, err := svc.List(context.Background(), 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, other.Total)
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.OverrideRequest
	}{
		{"bad date", &models.OverrideRequest{Date: "15.10.2025", OverrideType: "closed"}},
		{"unknown type", &models.OverrideRequest{Date: "2025-10-15", OverrideType: "holiday"}},
		{"only start time", &models.OverrideRequest{Date: "2025-10-15", StartTime: ptr.Ptr("18:00"), OverrideType: "closed"}},
		{"end before start", &models.OverrideRequest{
			Date: "2025-10-15", StartTime: ptr.Ptr("19:00"), EndTime: ptr.Ptr("18:00"), OverrideType: "closed",
		}},
		{"capacity without values", &models.OverrideRequest{Date: "2025-10-15", OverrideType: "capacity"}},
		{"negative seats", &models.OverrideRequest{Date: "2025-10-15", OverrideType: "capacity", NewMaxSeats: ptr.Ptr(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newFakeRepo(), nil, logger.NewNop())
			_, err := svc.Create(context.Background(), 1, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.True(t, errors.Is(err, domain.ErrOverrideConflict))
		})
	}
}

func TestService_UpdateInvalidatesBothDates(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	svc := NewService(repo, cache, logger.NewNop())

	created, err := svc.Create(context.Background(), 1, closedEvening())
	require.NoError(t, err)
	cache.invalidated = nil

	req := &models.OverrideRequest{
		Date:         "2025-10-16",
		OverrideType: "capacity",
		NewMaxSeats:  ptr.Ptr(4),
	}
	updated, err := svc.Update(context.Background(), 1, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "capacity", updated.OverrideType)
	assert.Nil(t, updated.StartTime)
	assert.ElementsMatch(t, []string{"2025-10-15", "2025-10-16"}, cache.invalidated)
}

func TestService_ForeignBranchIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, logger.NewNop())

	created, err := svc.Create(context.Background(), 1, closedEvening())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 2, created.ID)
	assert.ErrorIs(t, err, ErrOverrideNotFound)

	err = svc.Delete(context.Background(), 2, created.ID)
	assert.ErrorIs(t, err, ErrOverrideNotFound)
	assert.Len(t, repo.items, 1)
}

func TestService_Delete(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	svc := NewService(repo, cache, logger.NewNop())

	created, err := svc.Create(context.Background(), 1, closedEvening())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1, created.ID))
	assert.Empty(t, repo.items)

	_, err = svc.Get(context.Background(), 1, created.ID)
	assert.ErrorIs(t, err, ErrOverrideNotFound)
}

func TestService_RepositoryError(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("connection refused")
	svc := NewService(repo, nil, logger.NewNop())

	_, err := svc.Create(context.Background(), 1, closedEvening())
	assert.ErrorIs(t, err, ErrInternal)
}
