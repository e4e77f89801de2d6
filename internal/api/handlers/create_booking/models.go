package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-TableBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-TableBookingService/pkg/types"
)

// CreateBookingRequest HTTP request model.
// Слот указывается через timeSlotId или через branchId + date + startTime.
type CreateBookingRequest struct {
	TimeSlotID *int64  `json:"timeSlotId,omitempty"`
	BranchID   int64   `json:"branchId,omitempty"`
	Date       *string `json:"date,omitempty"`      // "2025-10-15"
	StartTime  *string `json:"startTime,omitempty"` // "18:00"
	PartySize  int     `json:"partySize"`
	UserID     *int64  `json:"userId,omitempty"` // Только для оператора
	GuestName  *string `json:"guestName,omitempty"`
	GuestPhone *string `json:"guestPhone,omitempty"`
	GuestEmail *string `json:"guestEmail,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	req := &createBooking.Request{
		TimeSlotID: r.TimeSlotID,
		BranchID:   r.BranchID,
		PartySize:  r.PartySize,
		UserID:     r.UserID,
		GuestName:  r.GuestName,
		GuestPhone: r.GuestPhone,
		GuestEmail: r.GuestEmail,
		Notes:      r.Notes,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, fmt.Errorf("date: %w", err)
		}
		req.Date = &date
	}

	if r.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("startTime: %w", err)
		}
		req.StartTime = &startTime
	}

	return req, nil
}
