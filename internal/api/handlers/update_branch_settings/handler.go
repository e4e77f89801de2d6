package update_branch_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TableBookingService/internal/service/settings"
	"github.com/m04kA/SMC-TableBookingService/internal/service/settings/models"
)

const (
	msgInvalidBranchID    = "некорректный ID филиала"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные настройки бронирования"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/branches/{branchId}/settings
// Доступно только оператору
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	branchID, err := handlers.PathInt64(r, "branchId")
	if err != nil {
		h.logger.Warn("PUT /branches/{id}/settings - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /branches/{id}/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), branchID, &req)
	if err != nil {
		switch {
		case handlers.RespondDomainError(w, err):
			h.logger.Warn("PUT /branches/{id}/settings - Invalid settings: branch_id=%d, error=%v", branchID, err)

		case errors.Is(err, settings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /branches/{id}/settings - Failed to save settings: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /branches/{id}/settings - Settings saved: branch_id=%d", branchID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
