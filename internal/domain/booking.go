package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusArrived   BookingStatus = "arrived"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// allowedTransitions допустимые переходы статусов
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusArrived, StatusCancelled},
	StatusArrived:   {StatusCompleted},
}

// ParseBookingStatus парсит статус из строки
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return status, nil
}

// IsValid проверяет, что статус известен
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusArrived, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal возвращает true для конечных статусов
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// HoldsCapacity возвращает true, если бронирование с этим статусом занимает места
func (s BookingStatus) HoldsCapacity() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusArrived
}

// CanTransitionTo проверяет допустимость перехода
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking бронирование столика
type Booking struct {
	ID         int64
	UserID     *int64
	GuestName  *string
	GuestPhone *string
	GuestEmail *string
	BranchID   int64
	TimeSlotID int64
	PartySize  int
	Status     BookingStatus
	StartTime  time.Time
	EndTime    time.Time
	Notes      *string

	IdempotencyKey *uuid.UUID

	CancellationReason *string
	ArrivedAt          *time.Time
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsGuest возвращает true для гостевого бронирования
func (b *Booking) IsGuest() bool {
	return b.UserID == nil
}

// IsActive возвращает true, если бронирование занимает места
func (b *Booking) IsActive() bool {
	return b.Status.HoldsCapacity()
}

// Transition переводит бронирование в новый статус и проставляет временные метки
func (b *Booking) Transition(next BookingStatus, now time.Time, reason *string) error {
	if !b.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}

	switch next {
	case StatusArrived:
		b.ArrivedAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
		b.CancellationReason = reason
	case StatusCompleted:
		b.CompletedAt = &now
	}

	b.Status = next
	b.UpdatedAt = now
	return nil
}

// BranchBookingsFilter фильтр бронирований филиала
type BranchBookingsFilter struct {
	BranchID        int64          // Обязательный параметр
	Date            *time.Time     // Дата начала бронирования (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать отмененные и завершенные
}
