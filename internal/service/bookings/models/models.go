package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ChangeStatusRequest запрос на смену статуса бронирования
type ChangeStatusRequest struct {
	Requester          domain.Requester
	Status             domain.BookingStatus
	CancellationReason *string
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	Requester domain.Requester
	UserID    int64
	Status    *string
}

// GetBranchBookingsRequest запрос на получение бронирований филиала
type GetBranchBookingsRequest struct {
	BranchID        int64
	Date            *string // "2025-10-15"
	Status          *string
	IncludeInactive bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBranchBookingsRequest) ToDomainFilter() (domain.BranchBookingsFilter, error) {
	filter := domain.BranchBookingsFilter{
		BranchID:        r.BranchID,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return filter, fmt.Errorf("date: %w", err)
		}
		filter.Date = &date
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64   `json:"id"`
	UserID     *int64  `json:"userId,omitempty"`
	GuestName  *string `json:"guestName,omitempty"`
	GuestPhone *string `json:"guestPhone,omitempty"`
	GuestEmail *string `json:"guestEmail,omitempty"`
	BranchID   int64   `json:"branchId"`
	TimeSlotID int64   `json:"timeSlotId"`
	PartySize  int     `json:"partySize"`
	Status     string  `json:"status"`
	Date       string  `json:"date"`      // "2025-10-15"
	StartTime  string  `json:"startTime"` // "18:00"
	EndTime    string  `json:"endTime"`   // "18:30"
	Notes      *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	ArrivedAt          *string `json:"arrivedAt,omitempty"` // ISO 8601 format
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CompletedAt        *string `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		UserID:             b.UserID,
		GuestName:          b.GuestName,
		GuestPhone:         b.GuestPhone,
		GuestEmail:         b.GuestEmail,
		BranchID:           b.BranchID,
		TimeSlotID:         b.TimeSlotID,
		PartySize:          b.PartySize,
		Status:             string(b.Status),
		Date:               b.StartTime.Format(domain.DateFormat),
		StartTime:          b.StartTime.Format(domain.TimeFormat),
		EndTime:            b.EndTime.Format(domain.TimeFormat),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		ArrivedAt:          formatInstant(b.ArrivedAt),
		CancelledAt:        formatInstant(b.CancelledAt),
		CompletedAt:        formatInstant(b.CompletedAt),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s, err := domain.ParseBookingStatus(status)
	if err != nil {
		return "", ErrInvalidStatus
	}
	return s, nil
}
