package models

import (
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
)

// UpdateSettingsRequest запрос на создание/обновление настроек филиала
type UpdateSettingsRequest struct {
	OpenTime           string `json:"openTime"`  // "12:00"
	CloseTime          string `json:"closeTime"` // "23:00"
	IntervalMinutes    int    `json:"intervalMinutes"`
	MaxSeatsPerSlot    int    `json:"maxSeatsPerSlot"`
	MaxTablesPerSlot   int    `json:"maxTablesPerSlot"`
	AdvanceBookingDays int    `json:"advanceBookingDays"`
}

// SettingsResponse настройки бронирования филиала
type SettingsResponse struct {
	BranchID           int64  `json:"branchId"`
	OpenTime           string `json:"openTime"`
	CloseTime          string `json:"closeTime"`
	IntervalMinutes    int    `json:"intervalMinutes"`
	MaxSeatsPerSlot    int    `json:"maxSeatsPerSlot"`
	MaxTablesPerSlot   int    `json:"maxTablesPerSlot"`
	AdvanceBookingDays int    `json:"advanceBookingDays"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
}

// FromDomain конвертирует доменную модель в ответ
func FromDomain(s *domain.BranchBookingSettings) *SettingsResponse {
	return &SettingsResponse{
		BranchID:           s.BranchID,
		OpenTime:           s.OpenTime.String(),
		CloseTime:          s.CloseTime.String(),
		IntervalMinutes:    s.IntervalMinutes,
		MaxSeatsPerSlot:    s.MaxSeatsPerSlot,
		MaxTablesPerSlot:   s.MaxTablesPerSlot,
		AdvanceBookingDays: s.AdvanceBookingDays,
		CreatedAt:          s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
	}
}
