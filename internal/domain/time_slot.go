package domain

import (
	"time"

	"github.com/m04kA/SMC-TableBookingService/pkg/types"
)

// TimeSlot материализованный слот филиала.
// Date и StartTime/EndTime хранят локальное время филиала без часового пояса
// (location = UTC), см. WallClock.
type TimeSlot struct {
	ID        int64
	BranchID  int64
	Date      time.Time
	StartTime time.Time
	EndTime   time.Time
	MaxSeats  int
	MaxTables int
	IsClosed  bool
	CreatedAt time.Time
}

// StartTimeString время начала в формате HH:MM
func (s *TimeSlot) StartTimeString() types.TimeString {
	return types.NewTimeString(s.StartTime)
}

// Contains возвращает true, если момент t попадает в [start, end)
func (s *TimeSlot) Contains(t time.Time) bool {
	return !t.Before(s.StartTime) && t.Before(s.EndTime)
}

// Overlaps возвращает true, если [start, end) пересекается со слотом
func (s *TimeSlot) Overlaps(start, end time.Time) bool {
	return start.Before(s.EndTime) && end.After(s.StartTime)
}

// HasStarted возвращает true, если слот уже начался к моменту now
func (s *TimeSlot) HasStarted(now time.Time) bool {
	return !now.Before(s.StartTime)
}

// NewTimeSlot создает слот на дату по настройкам филиала
func NewTimeSlot(settings *BranchBookingSettings, date time.Time, start types.TimeString) TimeSlot {
	startAt := start.OnDate(date)
	return TimeSlot{
		BranchID:  settings.BranchID,
		Date:      DateOnly(date),
		StartTime: startAt,
		EndTime:   startAt.Add(time.Duration(settings.IntervalMinutes) * time.Minute),
		MaxSeats:  settings.MaxSeatsPerSlot,
		MaxTables: settings.MaxTablesPerSlot,
	}
}

// WallClock переводит момент времени в локальное время филиала без часового пояса.
// Все даты и времена слотов и бронирований хранятся в этом представлении.
func WallClock(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), time.UTC)
}

// DateOnly отбрасывает время суток
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate возвращает true, если календарные даты совпадают
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
