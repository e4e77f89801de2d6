package get_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TableBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TableBookingService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"
)

// Handler отдает одно бронирование владельцу или оператору
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

// Handle GET /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	requester := middleware.GetRequester(r.Context())
	userID, _ := middleware.GetUserID(r.Context())

	result, err := h.service.GetByID(r.Context(), bookingID, requester)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id} - Booking not found: booking_id=%d, user_id=%d, role=%s",
				bookingID, userID, requester.Role)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id} - Access denied: booking_id=%d, user_id=%d, role=%s",
				bookingID, userID, requester.Role)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings/{id} - Failed to get booking: booking_id=%d, user_id=%d, error=%v",
				bookingID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id} - Booking retrieved: booking_id=%d, user_id=%d, role=%s, status=%s",
		bookingID, userID, requester.Role, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
