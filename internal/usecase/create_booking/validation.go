package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PartySize < 1 {
		return fmt.Errorf("%w: partySize must be at least 1", ErrInvalidInput)
	}
	if req.PartySize > domain.MaxPartySize {
		return fmt.Errorf("%w: partySize must not exceed %d", ErrInvalidInput, domain.MaxPartySize)
	}

	// Слот по ID или по филиалу, дате и времени
	if req.TimeSlotID == nil {
		if req.BranchID <= 0 || req.Date == nil || req.StartTime == nil {
			return fmt.Errorf("%w: timeSlotId or branchId with date and startTime is required", ErrInvalidInput)
		}
		if err := req.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
		}
	} else if *req.TimeSlotID <= 0 {
		return fmt.Errorf("%w: timeSlotId must be positive", ErrInvalidInput)
	}

	// Пользователь или гость с именем и телефоном
	if bookingUserID(req) == nil {
		if isBlank(req.GuestName) || isBlank(req.GuestPhone) {
			return fmt.Errorf("%w: guestName and guestPhone are required for guest booking", ErrInvalidInput)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	return nil
}

// bookingUserID владелец бронирования: сам пользователь или пользователь, указанный оператором
func bookingUserID(req *Request) *int64 {
	if req.Requester.IsOperator() {
		return req.UserID
	}
	return req.Requester.UserID
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
