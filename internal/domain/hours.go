package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

var (
	// ErrHoursNotConfigured возвращается, когда у компании не задан график работы
	ErrHoursNotConfigured = errors.New("operating hours are not configured")

	// ErrInvalidOperatingHours возвращается при некорректном формате графика работы
	ErrInvalidOperatingHours = errors.New("invalid operating hours format")
)

// OperatingWindow parses a company's operating hours string ("HH:MM-HH:MM")
// and combines it with the given date into an absolute [open, close) window.
//
// Ошибки конфигурации:
// - пустая строка -> ErrHoursNotConfigured
// - не ровно две части, не парсится время -> ErrInvalidOperatingHours
// - open >= close (окна через полночь не поддерживаются) -> ErrInvalidOperatingHours
func OperatingWindow(operatingHours string, date time.Time) (TimeRange, error) {
	raw := strings.TrimSpace(operatingHours)
	if raw == "" {
		return TimeRange{}, ErrHoursNotConfigured
	}

	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return TimeRange{}, fmt.Errorf("%w: expected \"HH:MM-HH:MM\", got %q", ErrInvalidOperatingHours, raw)
	}

	open, err := types.NewTimeStringFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: open time: %v", ErrInvalidOperatingHours, err)
	}

	close, err := types.NewTimeStringFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: close time: %v", ErrInvalidOperatingHours, err)
	}

	if !open.IsBefore(close) {
		return TimeRange{}, fmt.Errorf("%w: open %s must be before close %s", ErrInvalidOperatingHours, open, close)
	}

	dayStart, err := open.OnDate(date)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: %v", ErrInvalidOperatingHours, err)
	}
	dayEnd, err := close.OnDate(date)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: %v", ErrInvalidOperatingHours, err)
	}

	return TimeRange{Start: dayStart, End: dayEnd}, nil
}
