package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/pkg/types"
)

// Request модель запроса на создание бронирования.
// Слот задается либо TimeSlotID, либо тройкой BranchID + Date + StartTime.
type Request struct {
	Requester domain.Requester

	TimeSlotID *int64
	BranchID   int64
	Date       *time.Time        // Дата (без времени)
	StartTime  *types.TimeString // Время начала слота, например "18:00"

	PartySize int
	UserID    *int64 // Оператор может бронировать от имени пользователя

	GuestName  *string
	GuestPhone *string
	GuestEmail *string
	Notes      *string

	IdempotencyKey *uuid.UUID
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking  *domain.Booking
	Replayed bool // true, если бронирование уже было создано с тем же ключом идемпотентности
}

// DefaultStatuses начальный статус бронирования по точке входа
type DefaultStatuses struct {
	Guest    domain.BookingStatus
	User     domain.BookingStatus
	Operator domain.BookingStatus
}

// For возвращает начальный статус для роли инициатора
func (d DefaultStatuses) For(role domain.Role) domain.BookingStatus {
	switch role {
	case domain.RoleOperator:
		return d.Operator
	case domain.RoleUser:
		return d.User
	default:
		return d.Guest
	}
}
