package settings

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда у филиала нет настроек
	ErrSettingsNotFound = errors.New("settings: settings not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("settings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("settings: internal error")
)
