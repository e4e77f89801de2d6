package materialize_slots

import (
	"context"

	materializeSlots "github.com/m04kA/SMC-TableBookingService/internal/usecase/materialize_slots"
)

type MaterializeSlotsUseCase interface {
	Execute(ctx context.Context, req *materializeSlots.Request) (*materializeSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
