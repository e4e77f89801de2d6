package get_availability

import (
	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-TableBookingService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	BranchID     int64          `json:"branchId"`
	Date         string         `json:"date"`
	Availability map[string]int `json:"availability"` // "18:00" -> свободные места
	Slots        []SlotResponse `json:"slots"`
}

// SlotResponse остаток по одному слоту
type SlotResponse struct {
	SlotID          int64  `json:"slotId"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	CeilingSeats    int    `json:"ceilingSeats"`
	CeilingTables   int    `json:"ceilingTables"`
	RemainingSeats  int    `json:"remainingSeats"`
	RemainingTables int    `json:"remainingTables"`
	Remaining       int    `json:"remaining"`
	Closed          bool   `json:"closed"`
	Overridden      bool   `json:"overridden"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			SlotID:          s.SlotID,
			StartTime:       s.StartTime.Format(domain.TimeFormat),
			EndTime:         s.EndTime.Format(domain.TimeFormat),
			CeilingSeats:    s.CeilingSeats,
			CeilingTables:   s.CeilingTables,
			RemainingSeats:  s.RemainingSeats,
			RemainingTables: s.RemainingTables,
			Remaining:       s.Remaining,
			Closed:          s.Closed,
			Overridden:      s.Overridden,
		})
	}

	return &AvailabilityResponse{
		BranchID:     resp.BranchID,
		Date:         resp.Date.Format(domain.DateFormat),
		Availability: resp.Availability,
		Slots:        slots,
	}
}
