package booking_overrides

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/service/overrides/models"
)

type OverrideService interface {
	Create(ctx context.Context, branchID int64, req *models.OverrideRequest) (*models.OverrideResponse, error)
	Get(ctx context.Context, branchID, id int64) (*models.OverrideResponse, error)
	List(ctx context.Context, branchID int64, date *time.Time) (*models.OverrideListResponse, error)
	Update(ctx context.Context, branchID, id int64, req *models.OverrideRequest) (*models.OverrideResponse, error)
	Delete(ctx context.Context, branchID, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
