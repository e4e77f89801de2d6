package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBookingService/pkg/ptr"
	"github.com/m04kA/SMC-TableBookingService/pkg/types"
)

func window(start, end types.TimeString) (*types.TimeString, *types.TimeString) {
	return ptr.Ptr(start), ptr.Ptr(end)
}

func TestBookingOverride_Validate(t *testing.T) {
	start, end := window("18:00", "19:00")

	tests := []struct {
		name     string
		override BookingOverride
		wantErr  bool
	}{
		{
			name:     "closed whole day",
			override: BookingOverride{BranchID: 1, Date: testDate, Type: OverrideClosed},
		},
		{
			name:     "capacity window",
			override: BookingOverride{BranchID: 1, Date: testDate, Type: OverrideCapacity, StartTime: start, EndTime: end, NewMaxSeats: ptr.Ptr(4)},
		},
		{
			name:     "end before start",
			override: BookingOverride{BranchID: 1, Date: testDate, Type: OverrideClosed, StartTime: end, EndTime: start},
			wantErr:  true,
		},
		{
			name:     "equal bounds",
			override: BookingOverride{BranchID: 1, Date: testDate, Type: OverrideClosed, StartTime: start, EndTime: start},
			wantErr:  true,
		},
		{
			name:     "only start",
			override: BookingOverride{BranchID: 1, Date: testDate, Type: OverrideClosed, StartTime: start},
			wantErr:  true,
		},
		{
			name:     "custom without values",
			override: BookingOverride{BranchID: 1, Date: testDate, Type: OverrideCustom},
			wantErr:  true,
		},
		{
			name:     "negative seats",
			override: BookingOverride{BranchID: 1, Date: testDate, Type: OverrideCapacity, NewMaxSeats: ptr.Ptr(-1)},
			wantErr:  true,
		},
		{
			name:     "unknown type",
			override: BookingOverride{BranchID: 1, Date: testDate, Type: "holiday"},
			wantErr:  true,
		},
		{
			name:     "missing date",
			override: BookingOverride{BranchID: 1, Type: OverrideClosed},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.override.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOverrideConflict)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestResolveCeiling(t *testing.T) {
	settings := testSettings()
	slot := NewTimeSlot(settings, testDate, "18:30")
	slot.ID = 1
	updated := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("no overrides", func(t *testing.T) {
		c := ResolveCeiling(&slot, nil)
		assert.Equal(t, Ceiling{Seats: 10, Tables: 4}, c)
	})

	t.Run("closed slot row", func(t *testing.T) {
		closed := slot
		closed.IsClosed = true
		c := ResolveCeiling(&closed, nil)
		assert.True(t, c.Closed)
		assert.Zero(t, c.Seats)
	})

	t.Run("window does not intersect", func(t *testing.T) {
		start, end := window("19:00", "20:00")
		c := ResolveCeiling(&slot, []*BookingOverride{{ID: 1, BranchID: 7, Date: testDate, Type: OverrideClosed, StartTime: start, EndTime: end}})
		assert.False(t, c.Overridden)
		assert.Equal(t, 10, c.Seats)
	})

	t.Run("partial intersection applies", func(t *testing.T) {
		start, end := window("18:45", "20:00")
		c := ResolveCeiling(&slot, []*BookingOverride{{ID: 1, BranchID: 7, Date: testDate, Type: OverrideCapacity, StartTime: start, EndTime: end, NewMaxSeats: ptr.Ptr(20)}})
		assert.True(t, c.Overridden)
		assert.Equal(t, 20, c.Seats)
		assert.Equal(t, 4, c.Tables)
	})

	t.Run("other date ignored", func(t *testing.T) {
		c := ResolveCeiling(&slot, []*BookingOverride{{ID: 1, BranchID: 7, Date: testDate.AddDate(0, 0, 1), Type: OverrideClosed}})
		assert.False(t, c.Closed)
	})

	t.Run("closed wins over newer capacity", func(t *testing.T) {
		c := ResolveCeiling(&slot, []*BookingOverride{
			{ID: 1, BranchID: 7, Date: testDate, Type: OverrideClosed, UpdatedAt: updated},
			{ID: 2, BranchID: 7, Date: testDate, Type: OverrideCapacity, NewMaxSeats: ptr.Ptr(30), UpdatedAt: updated.Add(time.Hour)},
		})
		assert.True(t, c.Closed)
		assert.Equal(t, int64(1), *c.OverrideID)
	})

	t.Run("latest capacity override wins", func(t *testing.T) {
		c := ResolveCeiling(&slot, []*BookingOverride{
			{ID: 1, BranchID: 7, Date: testDate, Type: OverrideCapacity, NewMaxSeats: ptr.Ptr(6), UpdatedAt: updated.Add(time.Hour)},
			{ID: 2, BranchID: 7, Date: testDate, Type: OverrideCustom, NewMaxSeats: ptr.Ptr(2), NewMaxTables: ptr.Ptr(1), UpdatedAt: updated},
		})
		require.NotNil(t, c.OverrideID)
		assert.Equal(t, int64(1), *c.OverrideID)
		assert.Equal(t, 6, c.Seats)
		assert.Equal(t, 4, c.Tables)
	})

	t.Run("slot row is not mutated", func(t *testing.T) {
		before := slot
		ResolveCeiling(&slot, []*BookingOverride{{ID: 1, BranchID: 7, Date: testDate, Type: OverrideClosed}})
		assert.Equal(t, before, slot)
	})
}
