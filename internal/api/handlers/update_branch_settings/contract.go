package update_branch_settings

import (
	"context"

	"github.com/m04kA/SMC-TableBookingService/internal/service/settings/models"
)

type SettingsService interface {
	Upsert(ctx context.Context, branchID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
