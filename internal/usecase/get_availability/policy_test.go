package get_availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/pkg/types"
)

func policySettings() *domain.BranchBookingSettings {
	return &domain.BranchBookingSettings{
		BranchID:         1,
		OpenTime:         "12:00",
		CloseTime:        "23:00",
		IntervalMinutes:  30,
		MaxSeatsPerSlot:  10,
		MaxTablesPerSlot: 4,
	}
}

func TestBookableTimes(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		now       time.Time
		cutoff    int
		wantFirst types.TimeString
		wantLast  types.TimeString
		wantLen   int
	}{
		{
			name:      "future date keeps open, drops last hour",
			now:       time.Date(2025, 10, 14, 20, 0, 0, 0, time.UTC),
			cutoff:    60,
			wantFirst: "12:00",
			wantLast:  "22:00",
			wantLen:   21,
		},
		{
			name:      "today before opening",
			now:       time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC),
			cutoff:    60,
			wantFirst: "12:00",
			wantLast:  "22:00",
			wantLen:   21,
		},
		{
			name:      "today rounds now up to the grid",
			now:       time.Date(2025, 10, 15, 15, 10, 0, 0, time.UTC),
			cutoff:    60,
			wantFirst: "15:30",
			wantLast:  "22:00",
			wantLen:   14,
		},
		{
			name:      "exactly on a boundary",
			now:       time.Date(2025, 10, 15, 15, 0, 0, 0, time.UTC),
			cutoff:    60,
			wantFirst: "15:00",
			wantLast:  "22:00",
			wantLen:   15,
		},
		{
			name:      "seconds past a boundary",
			now:       time.Date(2025, 10, 15, 15, 0, 1, 0, time.UTC),
			cutoff:    60,
			wantFirst: "15:30",
			wantLast:  "22:00",
			wantLen:   14,
		},
		{
			name:      "no cutoff",
			now:       time.Date(2025, 10, 14, 20, 0, 0, 0, time.UTC),
			cutoff:    0,
			wantFirst: "12:00",
			wantLast:  "22:30",
			wantLen:   22,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BookableTimes(policySettings(), date, tt.now, tt.cutoff)
			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantFirst, got[0])
			assert.Equal(t, tt.wantLast, got[len(got)-1])
		})
	}
}

func TestBookableTimes_PastDateAndLateEvening(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	got, err := BookableTimes(policySettings(), date, time.Date(2025, 10, 16, 12, 0, 0, 0, time.UTC), 60)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = BookableTimes(policySettings(), date, time.Date(2025, 10, 15, 22, 5, 0, 0, time.UTC), 60)
	require.NoError(t, err)
	assert.Empty(t, got)
}
