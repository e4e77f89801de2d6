package settings

import (
	"context"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	GetByBranchID(ctx context.Context, branchID int64) (*domain.BranchBookingSettings, error)
	Upsert(ctx context.Context, settings *domain.BranchBookingSettings) (*domain.BranchBookingSettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
