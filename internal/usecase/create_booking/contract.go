package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*domain.Booking, error)
	GetBySlotIDs(ctx context.Context, slotIDs []int64) ([]*domain.Booking, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	GetByBranchAndStart(ctx context.Context, branchID int64, start time.Time) (*domain.TimeSlot, error)
	ListByBranchAndDate(ctx context.Context, branchID int64, date time.Time) ([]*domain.TimeSlot, error)
}

// SettingsRepository интерфейс репозитория настроек филиала
type SettingsRepository interface {
	GetByBranchID(ctx context.Context, branchID int64) (*domain.BranchBookingSettings, error)
}

// OverrideRepository интерфейс репозитория исключений
type OverrideRepository interface {
	ListByBranch(ctx context.Context, branchID int64, date *time.Time) ([]*domain.BookingOverride, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// AvailabilityCache инвалидация кэша доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, branchID int64, dates ...time.Time) error
}

// Metrics доменные метрики
type Metrics interface {
	IncAdmission(result string)
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
