package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBookingService/pkg/types"
)

// OverrideType тип исключения из расписания
type OverrideType string

const (
	OverrideClosed   OverrideType = "closed"
	OverrideCapacity OverrideType = "capacity"
	OverrideCustom   OverrideType = "custom"
)

// IsValid проверяет, что тип исключения известен
func (t OverrideType) IsValid() bool {
	switch t {
	case OverrideClosed, OverrideCapacity, OverrideCustom:
		return true
	}
	return false
}

// BookingOverride исключение из расписания филиала на дату (или интервал внутри даты).
// StartTime и EndTime оба nil = весь день.
type BookingOverride struct {
	ID           int64
	BranchID     int64
	Date         time.Time
	StartTime    *types.TimeString
	EndTime      *types.TimeString
	Type         OverrideType
	NewMaxSeats  *int
	NewMaxTables *int
	Note         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsWholeDay возвращает true, если исключение действует весь день
func (o *BookingOverride) IsWholeDay() bool {
	return o.StartTime == nil && o.EndTime == nil
}

// Validate проверяет корректность исключения
func (o *BookingOverride) Validate() error {
	if o.BranchID <= 0 {
		return fmt.Errorf("%w: branchId is required", ErrOverrideConflict)
	}
	if o.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrOverrideConflict)
	}
	if !o.Type.IsValid() {
		return fmt.Errorf("%w: unknown override type %q", ErrOverrideConflict, o.Type)
	}

	if (o.StartTime == nil) != (o.EndTime == nil) {
		return fmt.Errorf("%w: startTime and endTime must be set together", ErrOverrideConflict)
	}
	if !o.IsWholeDay() {
		if err := o.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: startTime: %v", ErrOverrideConflict, err)
		}
		if err := o.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: endTime: %v", ErrOverrideConflict, err)
		}
		if !o.StartTime.IsBefore(*o.EndTime) {
			return fmt.Errorf("%w: endTime %s must be after startTime %s", ErrOverrideConflict, *o.EndTime, *o.StartTime)
		}
	}

	if o.Type != OverrideClosed && o.NewMaxSeats == nil && o.NewMaxTables == nil {
		return fmt.Errorf("%w: %s override requires newMaxSeats or newMaxTables", ErrOverrideConflict, o.Type)
	}
	if o.NewMaxSeats != nil && (*o.NewMaxSeats < 0 || *o.NewMaxSeats > MaxSeatsPerSlot) {
		return fmt.Errorf("%w: newMaxSeats must be in [0, %d]", ErrOverrideConflict, MaxSeatsPerSlot)
	}
	if o.NewMaxTables != nil && (*o.NewMaxTables < 0 || *o.NewMaxTables > MaxTablesPerSlot) {
		return fmt.Errorf("%w: newMaxTables must be in [0, %d]", ErrOverrideConflict, MaxTablesPerSlot)
	}
	if o.Note != nil && len(*o.Note) > MaxOverrideNoteLength {
		return fmt.Errorf("%w: note is too long", ErrOverrideConflict)
	}

	return nil
}

// Window возвращает интервал действия исключения [start, end)
func (o *BookingOverride) Window() (time.Time, time.Time) {
	day := DateOnly(o.Date)
	if o.IsWholeDay() {
		return day, day.AddDate(0, 0, 1)
	}
	return o.StartTime.OnDate(day), o.EndTime.OnDate(day)
}

// AppliesTo возвращает true, если окно исключения пересекается со слотом
func (o *BookingOverride) AppliesTo(slot *TimeSlot) bool {
	if o.BranchID != slot.BranchID {
		return false
	}
	start, end := o.Window()
	return slot.Overlaps(start, end)
}

// Ceiling эффективная вместимость слота после применения исключений
type Ceiling struct {
	Seats      int
	Tables     int
	Closed     bool
	Overridden bool
	OverrideID *int64
}

// ResolveCeiling вычисляет эффективную вместимость слота.
// Закрытый слот и исключение closed дают 0/0, closed побеждает остальные.
// Из нескольких capacity/custom исключений действует последнее обновленное.
// Незаданное значение newMax* оставляет значение слота.
// Строка слота при этом не изменяется.
func ResolveCeiling(slot *TimeSlot, overrides []*BookingOverride) Ceiling {
	if slot.IsClosed {
		return Ceiling{Closed: true}
	}

	var latest *BookingOverride
	for _, o := range overrides {
		if !o.AppliesTo(slot) {
			continue
		}
		if o.Type == OverrideClosed {
			id := o.ID
			return Ceiling{Closed: true, Overridden: true, OverrideID: &id}
		}
		if latest == nil || o.UpdatedAt.After(latest.UpdatedAt) ||
			(o.UpdatedAt.Equal(latest.UpdatedAt) && o.ID > latest.ID) {
			latest = o
		}
	}

	if latest == nil {
		return Ceiling{Seats: slot.MaxSeats, Tables: slot.MaxTables}
	}

	id := latest.ID
	ceiling := Ceiling{Seats: slot.MaxSeats, Tables: slot.MaxTables, Overridden: true, OverrideID: &id}
	if latest.NewMaxSeats != nil {
		ceiling.Seats = *latest.NewMaxSeats
	}
	if latest.NewMaxTables != nil {
		ceiling.Tables = *latest.NewMaxTables
	}
	return ceiling
}
