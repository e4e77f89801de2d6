package overrides

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
)

// OverrideRepository интерфейс репозитория исключений
type OverrideRepository interface {
	Create(ctx context.Context, o *domain.BookingOverride) (*domain.BookingOverride, error)
	GetByID(ctx context.Context, id int64) (*domain.BookingOverride, error)
	ListByBranch(ctx context.Context, branchID int64, date *time.Time) ([]*domain.BookingOverride, error)
	Update(ctx context.Context, o *domain.BookingOverride) (*domain.BookingOverride, error)
	Delete(ctx context.Context, id int64) error
}

// AvailabilityCache инвалидация кэша доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, branchID int64, dates ...time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
