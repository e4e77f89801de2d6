package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBookingService/pkg/types"
)

// BranchBookingSettings настройки бронирования филиала (одна запись на филиал)
type BranchBookingSettings struct {
	BranchID           int64
	OpenTime           types.TimeString
	CloseTime          types.TimeString
	IntervalMinutes    int
	MaxSeatsPerSlot    int
	MaxTablesPerSlot   int
	AdvanceBookingDays int // 0 = значение сервиса по умолчанию
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate проверяет инварианты настроек
func (s *BranchBookingSettings) Validate() error {
	if err := s.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: openTime: %v", ErrInvalidSettings, err)
	}
	if err := s.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: closeTime: %v", ErrInvalidSettings, err)
	}
	if !s.OpenTime.IsBefore(s.CloseTime) {
		return fmt.Errorf("%w: openTime %s must be before closeTime %s", ErrInvalidSettings, s.OpenTime, s.CloseTime)
	}
	if s.IntervalMinutes < MinIntervalMinutes || s.IntervalMinutes > MaxIntervalMinutes {
		return fmt.Errorf("%w: intervalMinutes must be in [%d, %d]", ErrInvalidSettings, MinIntervalMinutes, MaxIntervalMinutes)
	}
	if s.MaxSeatsPerSlot < 1 || s.MaxSeatsPerSlot > MaxSeatsPerSlot {
		return fmt.Errorf("%w: maxSeatsPerSlot must be in [1, %d]", ErrInvalidSettings, MaxSeatsPerSlot)
	}
	if s.MaxTablesPerSlot < 1 || s.MaxTablesPerSlot > MaxTablesPerSlot {
		return fmt.Errorf("%w: maxTablesPerSlot must be in [1, %d]", ErrInvalidSettings, MaxTablesPerSlot)
	}
	if s.AdvanceBookingDays < 0 || s.AdvanceBookingDays > MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be in [0, %d]", ErrInvalidSettings, MaxAdvanceBookingDays)
	}
	return nil
}

// WindowDays горизонт материализации слотов для филиала
func (s *BranchBookingSettings) WindowDays(fallback int) int {
	if s.AdvanceBookingDays > 0 {
		return s.AdvanceBookingDays
	}
	return fallback
}
