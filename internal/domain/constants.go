package domain

// Значения по умолчанию
const (
	DefaultLastBookingCutoffMinutes = 60
	DefaultMaterializeDays          = 14
)

// Ограничения бизнес-валидации
const (
	MinIntervalMinutes          = 5
	MaxIntervalMinutes          = 480 // 8 часов
	MaxSeatsPerSlot             = 1000
	MaxTablesPerSlot            = 500
	MaxPartySize                = 100
	MaxAdvanceBookingDays       = 365
	MaxMaterializeDays          = 90
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxOverrideNoteLength       = 500
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CapacityStatuses статусы, занимающие места в слоте
var CapacityStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusArrived,
}

// InactiveStatuses статусы, которые больше не занимают места
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
}
