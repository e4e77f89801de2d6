package booking_overrides

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/internal/service/overrides"
	"github.com/m04kA/SMC-TableBookingService/internal/service/overrides/models"
)

const (
	msgInvalidBranchID    = "некорректный ID филиала"
	msgInvalidOverrideID  = "некорректный ID исключения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgNotFound           = "исключение не найдено"
)

// Handler CRUD исключений из расписания филиала. Все методы доступны только оператору.
type Handler struct {
	service OverrideService
	logger  Logger
}

func NewHandler(service OverrideService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/branches/{branchId}/overrides
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branchID(w, r)
	if !ok {
		return
	}

	var req models.OverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /branches/{id}/overrides - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), branchID, &req)
	if err != nil {
		h.respondError(w, "POST /branches/{id}/overrides", err)
		return
	}

	h.logger.Info("POST /branches/{id}/overrides - Override created: branch_id=%d, override_id=%d", branchID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Get GET /api/v1/branches/{branchId}/overrides/{overrideId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	branchID, overrideID, ok := h.ids(w, r)
	if !ok {
		return
	}

	result, err := h.service.Get(r.Context(), branchID, overrideID)
	if err != nil {
		h.respondError(w, "GET /branches/{id}/overrides/{overrideId}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// List GET /api/v1/branches/{branchId}/overrides?date=YYYY-MM-DD
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branchID(w, r)
	if !ok {
		return
	}

	var date *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		date = &parsed
	}

	result, err := h.service.List(r.Context(), branchID, date)
	if err != nil {
		h.respondError(w, "GET /branches/{id}/overrides", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Update PUT /api/v1/branches/{branchId}/overrides/{overrideId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	branchID, overrideID, ok := h.ids(w, r)
	if !ok {
		return
	}

	var req models.OverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /branches/{id}/overrides/{overrideId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), branchID, overrideID, &req)
	if err != nil {
		h.respondError(w, "PUT /branches/{id}/overrides/{overrideId}", err)
		return
	}

	h.logger.Info("PUT /branches/{id}/overrides/{overrideId} - Override updated: override_id=%d", overrideID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /api/v1/branches/{branchId}/overrides/{overrideId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	branchID, overrideID, ok := h.ids(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), branchID, overrideID); err != nil {
		h.respondError(w, "DELETE /branches/{id}/overrides/{overrideId}", err)
		return
	}

	h.logger.Info("DELETE /branches/{id}/overrides/{overrideId} - Override deleted: override_id=%d", overrideID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) branchID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	branchID, err := handlers.PathInt64(r, "branchId")
	if err != nil {
		h.logger.Warn("%s %s - Invalid branch ID: %v", r.Method, r.URL.Path, err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return 0, false
	}
	return branchID, true
}

func (h *Handler) ids(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	branchID, ok := h.branchID(w, r)
	if !ok {
		return 0, 0, false
	}
	overrideID, err := handlers.PathInt64(r, "overrideId")
	if err != nil {
		h.logger.Warn("%s %s - Invalid override ID: %v", r.Method, r.URL.Path, err)
		handlers.RespondBadRequest(w, msgInvalidOverrideID)
		return 0, 0, false
	}
	return branchID, overrideID, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case handlers.RespondDomainError(w, err):
		h.logger.Warn("%s - Invalid override: %v", route, err)

	case errors.Is(err, overrides.ErrOverrideNotFound):
		handlers.RespondNotFound(w, msgNotFound)

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
