package get_branch_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TableBookingService/internal/service/settings"
)

const (
	msgInvalidBranchID = "некорректный ID филиала"
	msgNotFound        = "настройки бронирования филиала не найдены"
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

// Handle GET /api/v1/branches/{branchId}/settings
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	branchID, err := handlers.PathInt64(r, "branchId")
	if err != nil {
		h.logger.Warn("GET /branches/{id}/settings - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	result, err := h.service.Get(r.Context(), branchID)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /branches/{id}/settings - Failed to get settings: branch_id=%d, error=%v", branchID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
