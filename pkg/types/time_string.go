package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	timeLayout    = "15:04"
	minutesPerDay = 24 * 60
)

var (
	// ErrInvalidTimeFormat возвращается, когда строка не соответствует формату HH:MM
	ErrInvalidTimeFormat = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, когда результат выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflows the day")
)

// TimeString время суток в формате "HH:MM" без привязки к дате
type TimeString string

// NewTimeString создает TimeString из time.Time (берутся только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит и валидирует строку "HH:MM".
// Секунды ("HH:MM:SS") допускаются и отбрасываются.
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 2 || hour < 0 || hour > 23 {
		return "", fmt.Errorf("%w: invalid hour in %q", ErrInvalidTimeFormat, s)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("%w: invalid minute in %q", ErrInvalidTimeFormat, s)
	}

	return FromMinutes(hour*60 + minute)
}

// FromMinutes создает TimeString из количества минут от начала суток
func FromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOverflow, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат времени
func (t TimeString) Validate() error {
	_, err := NewTimeStringFromString(string(t))
	return err
}

// Minutes возвращает количество минут от начала суток.
// Для невалидного значения возвращает -1.
func (t TimeString) Minutes() int {
	if len(t) < 5 {
		return -1
	}
	hour, err := strconv.Atoi(string(t[0:2]))
	if err != nil {
		return -1
	}
	minute, err := strconv.Atoi(string(t[3:5]))
	if err != nil {
		return -1
	}
	return hour*60 + minute
}

// AddMinutes возвращает время, сдвинутое на n минут
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	return FromMinutes(t.Minutes() + n)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// Equal возвращает true, если времена совпадают
func (t TimeString) Equal(other TimeString) bool {
	return t.Minutes() == other.Minutes()
}

// OnDate привязывает время к календарной дате (в локации даты)
func (t TimeString) OnDate(date time.Time) time.Time {
	m := t.Minutes()
	if m < 0 {
		m = 0
	}
	return time.Date(date.Year(), date.Month(), date.Day(), m/60, m%60, 0, 0, date.Location())
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// Scan реализует sql.Scanner. Поддерживает TIME-колонки postgres ("HH:MM:SS") и time.Time.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeFormat, src)
	}
}
