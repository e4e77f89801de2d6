package get_availability

import (
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
)

// Request модель запроса доступности филиала на дату
type Request struct {
	BranchID     int64
	Date         time.Time // Дата (без времени)
	BookableOnly bool      // Только слоты, которые можно забронировать сейчас
}

// Response модель ответа с остатками по слотам
type Response struct {
	BranchID     int64
	Date         time.Time
	Slots        []domain.SlotAvailability
	Availability map[string]int // "HH:MM" -> свободные места
}
