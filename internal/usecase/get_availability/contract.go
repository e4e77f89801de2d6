package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек филиала
type SettingsRepository interface {
	GetByBranchID(ctx context.Context, branchID int64) (*domain.BranchBookingSettings, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByBranchAndDate(ctx context.Context, branchID int64, date time.Time) ([]*domain.TimeSlot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetBySlotIDs(ctx context.Context, slotIDs []int64) ([]*domain.Booking, error)
}

// OverrideRepository интерфейс репозитория исключений
type OverrideRepository interface {
	ListByBranch(ctx context.Context, branchID int64, date *time.Time) ([]*domain.BookingOverride, error)
}

// AvailabilityCache кэш рассчитанной доступности.
// Get возвращает версию даты, Set пишет под ней; инвалидация между ними делает запись невидимой.
type AvailabilityCache interface {
	Get(ctx context.Context, branchID int64, date time.Time) ([]domain.SlotAvailability, int64, bool)
	Set(ctx context.Context, branchID int64, date time.Time, version int64, list []domain.SlotAvailability) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
