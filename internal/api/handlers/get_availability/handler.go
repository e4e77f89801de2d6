package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-TableBookingService/internal/usecase/get_availability"
)

const (
	msgInvalidBranchID     = "некорректный ID филиала"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidBookableOnly = "некорректный параметр bookableOnly"
	msgInvalidParams       = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/availability?date=YYYY-MM-DD&bookableOnly=true
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	branchID, err := handlers.PathInt64(r, "branchId")
	if err != nil {
		h.logger.Warn("GET /branches/{id}/availability - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /branches/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	bookableOnly := false
	if raw := r.URL.Query().Get("bookableOnly"); raw != "" {
		bookableOnly, err = strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidBookableOnly)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		BranchID:     branchID,
		Date:         date,
		BookableOnly: bookableOnly,
	})
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /branches/{id}/availability - Rejected: branch_id=%d, error=%v", branchID, err)
			return
		}
		if errors.Is(err, getAvailability.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /branches/{id}/availability - Failed to get availability: branch_id=%d, error=%v",
			branchID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
