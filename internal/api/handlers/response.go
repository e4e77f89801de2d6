package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
)

// Коды причин в теле ответа с ошибкой
const (
	ReasonBadRequest           = "BAD_REQUEST"
	ReasonUnauthorized         = "UNAUTHORIZED"
	ReasonForbidden            = "FORBIDDEN"
	ReasonNotFound             = "NOT_FOUND"
	ReasonInternal             = "INTERNAL_ERROR"
	ReasonTooManyRequests      = "TOO_MANY_REQUESTS"
	ReasonConfigurationMissing = "CONFIGURATION_MISSING"
	ReasonInvalidSlot          = "INVALID_SLOT"
	ReasonCapacityExceeded     = "CAPACITY_EXCEEDED"
	ReasonInvalidTransition    = "INVALID_TRANSITION"
	ReasonOverrideConflict     = "OVERRIDE_CONFLICT"
	ReasonInvalidSettings      = "INVALID_SETTINGS"
)

const (
	msgInternalError        = "внутренняя ошибка сервера"
	msgConfigurationMissing = "для филиала не настроено бронирование"
	msgInvalidSlot          = "слот недоступен для бронирования"
	msgCapacityExceeded     = "в выбранном слоте недостаточно свободных мест"
	msgInvalidTransition    = "недопустимая смена статуса бронирования"
	msgOverrideConflict     = "некорректное исключение из расписания"
	msgInvalidSettings      = "некорректные настройки бронирования"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondReason отправляет ошибку с кодом причины
func RespondReason(w http.ResponseWriter, status int, reason, message string) {
	RespondJSON(w, status, ErrorResponse{Reason: reason, Message: message})
}

// RespondError отправляет ошибку с кодом причины по HTTP статусу
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondReason(w, status, reasonForStatus(status), message)
}

// RespondBadRequest отправляет 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondUnauthorized отправляет 401
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

// RespondForbidden отправляет 403
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondNotFound отправляет 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondInternalError отправляет 500 без деталей
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError отправляет ответ для доменной ошибки.
// Возвращает false, если ошибка не доменная.
func RespondDomainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, domain.ErrConfigurationMissing):
		RespondReason(w, http.StatusUnprocessableEntity, ReasonConfigurationMissing, msgConfigurationMissing)
	case errors.Is(err, domain.ErrInvalidSlot):
		RespondReason(w, http.StatusBadRequest, ReasonInvalidSlot, msgInvalidSlot)
	case errors.Is(err, domain.ErrCapacityExceeded):
		RespondReason(w, http.StatusConflict, ReasonCapacityExceeded, msgCapacityExceeded)
	case errors.Is(err, domain.ErrInvalidTransition):
		RespondReason(w, http.StatusConflict, ReasonInvalidTransition, msgInvalidTransition)
	case errors.Is(err, domain.ErrOverrideConflict):
		RespondReason(w, http.StatusBadRequest, ReasonOverrideConflict, msgOverrideConflict)
	case errors.Is(err, domain.ErrInvalidSettings):
		RespondReason(w, http.StatusBadRequest, ReasonInvalidSettings, msgInvalidSettings)
	default:
		return false
	}
	return true
}

func reasonForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ReasonBadRequest
	case http.StatusUnauthorized:
		return ReasonUnauthorized
	case http.StatusForbidden:
		return ReasonForbidden
	case http.StatusNotFound:
		return ReasonNotFound
	case http.StatusTooManyRequests:
		return ReasonTooManyRequests
	default:
		return ReasonInternal
	}
}

// DecodeJSON декодирует тело запроса, неизвестные поля запрещены
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty request body")
		}
		return err
	}
	return nil
}

// PathInt64 извлекает положительный int64 параметр пути
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return id, nil
}
