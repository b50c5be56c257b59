package domain

import (
	"time"

	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

// Company represents the scheduling-relevant part of a company record.
// The rest of the company profile is owned by the management service.
type Company struct {
	ID             int64
	Name           string
	OperatingHours string // "HH:MM-HH:MM", e.g. "08:00-18:00"
	IsActive       bool
}

// Employee represents the scheduling-relevant part of an employee record
type Employee struct {
	ID            int64
	CompanyID     int64
	Name          string
	IsActive      bool
	EmailVerified bool
}

// IsSchedulable returns true if the employee can receive appointments
func (e *Employee) IsSchedulable() bool {
	return e.IsActive && e.EmailVerified
}

// Service represents a bookable service of a company
type Service struct {
	ID              int64
	CompanyID       int64
	Name            string
	DurationMinutes int
	Price           float64
	Active          bool
}

// EmployeeBlock represents a manual unavailability window of an employee
// (break, time off). Offsets are times of day on BlockDate.
type EmployeeBlock struct {
	ID         int64
	EmployeeID int64
	BlockDate  time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	Reason     string
}

// Window returns the absolute [start, end) interval of the block on its date.
// Returns an error when the stored time offsets are malformed.
func (b *EmployeeBlock) Window() (TimeRange, error) {
	start, err := b.StartTime.OnDate(b.BlockDate)
	if err != nil {
		return TimeRange{}, err
	}
	end, err := b.EndTime.OnDate(b.BlockDate)
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: start, End: end}, nil
}
