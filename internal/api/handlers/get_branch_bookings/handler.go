package get_branch_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TableBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-TableBookingService/internal/service/bookings/models"
)

const (
	msgInvalidBranchID = "некорректный ID филиала"
	msgInvalidParams   = "некорректные параметры запроса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/bookings?date=&status=&includeInactive=
// Доступно только оператору
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	branchID, err := handlers.PathInt64(r, "branchId")
	if err != nil {
		h.logger.Warn("GET /branches/{id}/bookings - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	query := r.URL.Query()
	serviceReq := &models.GetBranchBookingsRequest{BranchID: branchID}
	if date := query.Get("date"); date != "" {
		serviceReq.Date = &date
	}
	if status := query.Get("status"); status != "" {
		serviceReq.Status = &status
	}
	if raw := query.Get("includeInactive"); raw != "" {
		serviceReq.IncludeInactive, err = strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
	}

	result, err := h.service.GetBranchBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /branches/{id}/bookings - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /branches/{id}/bookings - Failed to get bookings: branch_id=%d, error=%v", branchID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
