package materialize_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	materializeSlots "github.com/m04kA/SMC-TableBookingService/internal/usecase/materialize_slots"
)

const (
	msgInvalidBranchID    = "некорректный ID филиала"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDays        = "некорректное количество дней"
)

type Handler struct {
	useCase MaterializeSlotsUseCase
	logger  Logger
}

func NewHandler(useCase MaterializeSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/branches/{branchId}/slots/materialize
// Доступно только оператору
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	branchID, err := handlers.PathInt64(r, "branchId")
	if err != nil {
		h.logger.Warn("POST /branches/{id}/slots/materialize - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	var req MaterializeRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /branches/{id}/slots/materialize - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &materializeSlots.Request{BranchID: branchID, Days: req.Days})
	if err != nil {
		switch {
		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /branches/{id}/slots/materialize - Rejected: branch_id=%d, error=%v", branchID, err)

		case errors.Is(err, materializeSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDays)

		default:
			h.logger.Error("POST /branches/{id}/slots/materialize - Failed: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
