package domain

import (
	"sort"
	"time"
)

// SlotAvailability остаток вместимости слота
type SlotAvailability struct {
	SlotID          int64
	StartTime       time.Time
	EndTime         time.Time
	CeilingSeats    int
	CeilingTables   int
	ConsumedSeats   int
	ConsumedTables  int
	RemainingSeats  int
	RemainingTables int
	Remaining       int // Итоговый остаток мест с учетом столов
	Closed          bool
	Overridden      bool
	IsCurrent       bool
}

// CanAdmit возвращает true, если в слоте хватает мест для компании
func (a *SlotAvailability) CanAdmit(partySize int) bool {
	return partySize >= 1 && partySize <= a.Remaining
}

type consumption struct {
	seats  int
	tables int
}

// CalculateAvailability считает остаток мест и столов по слотам одной даты.
//
// Места занимают бронирования в статусах pending, confirmed, arrived;
// каждое бронирование занимает один стол. Если date совпадает с датой now
// и now попадает в один из слотов, все бронирования arrived этой даты
// учитываются в текущем слоте, а не в исходном.
// Итоговый остаток = остаток мест, если есть свободный стол, иначе 0.
func CalculateAvailability(
	date time.Time,
	slots []*TimeSlot,
	bookings []*Booking,
	overrides []*BookingOverride,
	now time.Time,
) []SlotAvailability {
	ordered := make([]*TimeSlot, len(slots))
	copy(ordered, slots)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	current := FindCurrentSlot(ordered, date, now)

	used := make(map[int64]*consumption, len(ordered))
	for _, s := range ordered {
		used[s.ID] = &consumption{}
	}

	for _, b := range bookings {
		if !b.Status.HoldsCapacity() {
			continue
		}

		target := b.TimeSlotID
		if b.Status == StatusArrived && current != nil {
			target = current.ID
		}

		c, ok := used[target]
		if !ok {
			continue
		}
		c.seats += b.PartySize
		c.tables++
	}

	result := make([]SlotAvailability, 0, len(ordered))
	for _, s := range ordered {
		ceiling := ResolveCeiling(s, overrides)
		c := used[s.ID]

		remainingSeats := max(0, ceiling.Seats-c.seats)
		remainingTables := max(0, ceiling.Tables-c.tables)
		remaining := 0
		if remainingTables > 0 {
			remaining = remainingSeats
		}

		result = append(result, SlotAvailability{
			SlotID:          s.ID,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			CeilingSeats:    ceiling.Seats,
			CeilingTables:   ceiling.Tables,
			ConsumedSeats:   c.seats,
			ConsumedTables:  c.tables,
			RemainingSeats:  remainingSeats,
			RemainingTables: remainingTables,
			Remaining:       remaining,
			Closed:          ceiling.Closed,
			Overridden:      ceiling.Overridden,
			IsCurrent:       current != nil && current.ID == s.ID,
		})
	}

	return result
}

// FindCurrentSlot возвращает слот, содержащий now, если date = сегодня
func FindCurrentSlot(slots []*TimeSlot, date, now time.Time) *TimeSlot {
	if !SameDate(date, now) {
		return nil
	}
	for _, s := range slots {
		if s.Contains(now) {
			return s
		}
	}
	return nil
}

// FindSlotAvailability ищет остаток по ID слота
func FindSlotAvailability(list []SlotAvailability, slotID int64) (SlotAvailability, bool) {
	for _, a := range list {
		if a.SlotID == slotID {
			return a, true
		}
	}
	return SlotAvailability{}, false
}

// AvailabilityMap сворачивает остатки в отображение "HH:MM" -> свободные места
func AvailabilityMap(list []SlotAvailability) map[string]int {
	result := make(map[string]int, len(list))
	for _, a := range list {
		result[a.StartTime.Format(TimeFormat)] = a.Remaining
	}
	return result
}
