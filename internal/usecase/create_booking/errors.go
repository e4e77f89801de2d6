package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")

	// errIdempotencyRace бронирование с тем же ключом создано параллельным запросом
	errIdempotencyRace = errors.New("create_booking: idempotency key taken concurrently")
)

// Результаты допуска для метрик
const (
	admissionAdmitted = "admitted"
	admissionRejected = "rejected"
	admissionReplayed = "replayed"
	admissionFailed   = "failed"
)
