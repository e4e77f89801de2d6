package materialize_slots

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
	InsertIfAbsent(ctx context.Context, slot *domain.TimeSlot) (bool, error)
}

// AvailabilityCache инвалидация кэша доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, branchID int64, dates ...time.Time) error
}

// Metrics доменные метрики
type Metrics interface {
	AddSlotsMaterialized(outcome string, n int)
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
