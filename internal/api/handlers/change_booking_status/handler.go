package change_booking_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TableBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-TableBookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные запроса"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
)

// Handler переводит бронирование в один целевой статус (confirm, arrive, complete, cancel)
type Handler struct {
	service BookingService
	target  domain.BookingStatus
	logger  Logger
}

func NewHandler(service BookingService, target domain.BookingStatus, logger Logger) *Handler {
	return &Handler{
		service: service,
		target:  target,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/confirm|arrive|complete|cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/%s - Invalid booking ID: %v", h.target, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req ChangeStatusRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /bookings/{id}/%s - Invalid request body: %v", h.target, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	result, err := h.service.ChangeStatus(r.Context(), bookingID, &models.ChangeStatusRequest{
		Requester:          middleware.GetRequester(r.Context()),
		Status:             h.target,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		switch {
		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /bookings/{id}/%s - Rejected: booking_id=%d, error=%v", h.target, bookingID, err)

		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/%s - Access denied: booking_id=%d", h.target, bookingID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/{id}/%s - Failed to change status: booking_id=%d, error=%v",
				h.target, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/%s - Status changed: booking_id=%d", h.target, bookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
