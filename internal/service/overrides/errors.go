package overrides

import "errors"

var (
	// ErrOverrideNotFound возвращается, когда исключение не найдено у филиала
	ErrOverrideNotFound = errors.New("overrides: override not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("overrides: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("overrides: internal error")
)
