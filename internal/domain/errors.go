package domain

import "errors"

var (
	// ErrConfigurationMissing у филиала нет настроек бронирования
	ErrConfigurationMissing = errors.New("booking settings are not configured for branch")

	// ErrInvalidSlot слот не существует, закрыт или уже в прошлом
	ErrInvalidSlot = errors.New("invalid time slot")

	// ErrCapacityExceeded в слоте недостаточно свободных мест
	ErrCapacityExceeded = errors.New("slot capacity exceeded")

	// ErrInvalidTransition недопустимая смена статуса бронирования
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrOverrideConflict некорректное исключение из расписания
	ErrOverrideConflict = errors.New("invalid booking override")

	// ErrInvalidSettings некорректные настройки бронирования филиала
	ErrInvalidSettings = errors.New("invalid booking settings")

	// ErrInvalidInterval шаг слотов должен быть положительным
	ErrInvalidInterval = errors.New("slot interval must be positive")
)
