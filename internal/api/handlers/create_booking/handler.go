package create_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TableBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TableBookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-TableBookingService/internal/usecase/create_booking"
)

// HeaderIdempotencyKey заголовок с UUID ключом идемпотентности
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDateTime       = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidIdempotencyKey = "заголовок Idempotency-Key должен содержать UUID"
	msgInvalidInput          = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Доступен гостям без авторизации. Повтор с тем же Idempotency-Key возвращает 200 и исходное бронирование.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}
	useCaseReq.Requester = middleware.GetRequester(r.Context())

	if raw := r.Header.Get(HeaderIdempotencyKey); raw != "" {
		key, err := uuid.Parse(raw)
		if err != nil {
			h.logger.Warn("POST /bookings - Invalid idempotency key: %v", err)
			handlers.RespondBadRequest(w, msgInvalidIdempotencyKey)
			return
		}
		useCaseReq.IdempotencyKey = &key
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /bookings - Rejected: slot_id=%v, branch_id=%d, party_size=%d, error=%v",
				req.TimeSlotID, req.BranchID, req.PartySize, err)
			return
		}
		if errors.Is(err, createBooking.ErrInvalidInput) {
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("POST /bookings - Failed to create booking: slot_id=%v, branch_id=%d, error=%v",
			req.TimeSlotID, req.BranchID, err)
		handlers.RespondInternalError(w)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /bookings - Booking accepted: booking_id=%d, slot_id=%d, status=%s, replayed=%t",
		result.Booking.ID, result.Booking.TimeSlotID, result.Booking.Status, result.Replayed)
	handlers.RespondJSON(w, status, models.FromDomainBooking(result.Booking))
}
