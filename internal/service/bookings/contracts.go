package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByBranchWithFilter(ctx context.Context, filter domain.BranchBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, booking *domain.Booking) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// AvailabilityCache инвалидация кэша доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, branchID int64, dates ...time.Time) error
}

// Metrics доменные метрики
type Metrics interface {
	IncStatusTransition(to string)
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

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
