package get_availability

import (
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/pkg/types"
)

// BookableTimes возвращает времена начала, доступные для интерактивного бронирования.
//
// Для прошедшей даты список пуст. Для сегодняшней даты отбрасываются слоты,
// начинающиеся раньше текущего времени, округленного вверх до сетки слотов.
// Слоты, начинающиеся позже чем за cutoffMinutes до закрытия, отбрасываются всегда.
func BookableTimes(settings *domain.BranchBookingSettings, date, now time.Time, cutoffMinutes int) ([]types.TimeString, error) {
	day := domain.DateOnly(date)
	today := domain.DateOnly(now)
	if day.Before(today) {
		return []types.TimeString{}, nil
	}

	times, err := domain.GenerateSlotTimes(settings.OpenTime, settings.CloseTime, settings.IntervalMinutes)
	if err != nil {
		return nil, err
	}

	earliest := settings.OpenTime.Minutes()
	if day.Equal(today) {
		earliest = roundUpToGrid(now, settings.OpenTime.Minutes(), settings.IntervalMinutes)
	}
	latest := settings.CloseTime.Minutes() - cutoffMinutes

	result := make([]types.TimeString, 0, len(times))
	for _, t := range times {
		m := t.Minutes()
		if m < earliest || m > latest {
			continue
		}
		result = append(result, t)
	}

	return result, nil
}

// roundUpToGrid округляет now вверх до ближайшей границы слота, отсчитанной от open
func roundUpToGrid(now time.Time, open, interval int) int {
	minutes := now.Hour()*60 + now.Minute()
	if now.Second() > 0 || now.Nanosecond() > 0 {
		minutes++
	}
	if minutes <= open {
		return open
	}
	steps := (minutes - open + interval - 1) / interval
	return open + steps*interval
}
