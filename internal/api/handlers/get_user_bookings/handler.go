package get_user_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TableBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TableBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-TableBookingService/internal/service/bookings/models"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidStatus = "некорректный статус бронирования"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/users/{userId}/bookings?status=
// История включает завершенные и отмененные бронирования
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		h.logger.Warn("GET /users/{userId}/bookings - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	var statusPtr *string
	if status := r.URL.Query().Get("status"); status != "" {
		statusPtr = &status
	}

	serviceReq := &models.GetUserBookingsRequest{
		Requester: middleware.GetRequester(r.Context()),
		UserID:    userID,
		Status:    statusPtr,
	}

	result, err := h.service.GetUserBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /users/{userId}/bookings - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /users/{userId}/bookings - Failed to get bookings: user_id=%d, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{userId}/bookings - Bookings retrieved: user_id=%d, count=%d",
		userID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
