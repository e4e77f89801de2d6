package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/pkg/types"
)

// OverrideRequest запрос на создание/обновление исключения
type OverrideRequest struct {
	Date         string  `json:"date"`                // "2025-10-15"
	StartTime    *string `json:"startTime,omitempty"` // "18:00", без startTime/endTime - весь день
	EndTime      *string `json:"endTime,omitempty"`
	OverrideType string  `json:"overrideType"` // closed | capacity | custom
	NewMaxSeats  *int    `json:"newMaxSeats,omitempty"`
	NewMaxTables *int    `json:"newMaxTables,omitempty"`
	Note         *string `json:"note,omitempty"`
}

// ToDomain конвертирует запрос в доменную модель (без валидации бизнес-правил)
func (r *OverrideRequest) ToDomain(branchID int64) (*domain.BookingOverride, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	start, err := parseOptional(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	end, err := parseOptional(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	return &domain.BookingOverride{
		BranchID:     branchID,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		Type:         domain.OverrideType(r.OverrideType),
		NewMaxSeats:  r.NewMaxSeats,
		NewMaxTables: r.NewMaxTables,
		Note:         r.Note,
	}, nil
}

func parseOptional(s *string) (*types.TimeString, error) {
	if s == nil {
		return nil, nil
	}
	t, err := types.NewTimeStringFromString(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// OverrideResponse исключение из расписания
type OverrideResponse struct {
	ID           int64   `json:"id"`
	BranchID     int64   `json:"branchId"`
	Date         string  `json:"date"`
	StartTime    *string `json:"startTime,omitempty"`
	EndTime      *string `json:"endTime,omitempty"`
	OverrideType string  `json:"overrideType"`
	NewMaxSeats  *int    `json:"newMaxSeats,omitempty"`
	NewMaxTables *int    `json:"newMaxTables,omitempty"`
	Note         *string `json:"note,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// OverrideListResponse список исключений
type OverrideListResponse struct {
	Overrides []*OverrideResponse `json:"overrides"`
	Total     int                 `json:"total"`
}

// FromDomain конвертирует доменную модель в ответ
func FromDomain(o *domain.BookingOverride) *OverrideResponse {
	resp := &OverrideResponse{
		ID:           o.ID,
		BranchID:     o.BranchID,
		Date:         o.Date.Format(domain.DateFormat),
		OverrideType: string(o.Type),
		NewMaxSeats:  o.NewMaxSeats,
		NewMaxTables: o.NewMaxTables,
		Note:         o.Note,
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    o.UpdatedAt.Format(time.RFC3339),
	}
	if o.StartTime != nil {
		s := o.StartTime.String()
		resp.StartTime = &s
	}
	if o.EndTime != nil {
		e := o.EndTime.String()
		resp.EndTime = &e
	}
	return resp
}

// FromDomainList конвертирует список исключений
func FromDomainList(list []*domain.BookingOverride) *OverrideListResponse {
	result := make([]*OverrideResponse, 0, len(list))
	for _, o := range list {
		result = append(result, FromDomain(o))
	}
	return &OverrideListResponse{Overrides: result, Total: len(result)}
}
