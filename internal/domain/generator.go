package domain

import (
	"fmt"

	"github.com/m04kA/SMC-TableBookingService/pkg/types"
)

// GenerateSlotTimes возвращает времена начала слотов от open (включительно)
// с шагом intervalMinutes. Слот попадает в сетку, только если целиком
// укладывается до close: неполный хвостовой интервал отбрасывается.
// Если open >= close, результат пустой.
func GenerateSlotTimes(open, close types.TimeString, intervalMinutes int) ([]types.TimeString, error) {
	if intervalMinutes <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidInterval, intervalMinutes)
	}
	if err := open.Validate(); err != nil {
		return nil, fmt.Errorf("open time: %w", err)
	}
	if err := close.Validate(); err != nil {
		return nil, fmt.Errorf("close time: %w", err)
	}

	closeMinutes := close.Minutes()
	result := make([]types.TimeString, 0)

	for m := open.Minutes(); m+intervalMinutes <= closeMinutes; m += intervalMinutes {
		t, err := types.FromMinutes(m)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}

	return result, nil
}
