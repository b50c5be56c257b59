package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "Scheduled"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// Appointment represents a booked visit of a client to an employee
type Appointment struct {
	ID         int64
	CompanyID  int64
	EmployeeID int64
	ClientID   *int64 // nil = guest booking

	StartDateTime time.Time
	EndDateTime   *time.Time // nil = derived from StartDateTime + TotalDurationMinutes
	Status        AppointmentStatus

	// Snapshot of the selected services at creation time.
	// Later changes to a service never alter an existing appointment.
	ServiceIDs           []int64
	TotalDurationMinutes int

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its time window
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// End returns the effective end of the appointment:
// the explicit EndDateTime if stored, otherwise start + total duration
func (a *Appointment) End() time.Time {
	if a.EndDateTime != nil {
		return *a.EndDateTime
	}
	return a.StartDateTime.Add(time.Duration(a.TotalDurationMinutes) * time.Minute)
}

// Window returns the half-open [start, end) interval of the appointment
func (a *Appointment) Window() TimeRange {
	return TimeRange{Start: a.StartDateTime, End: a.End()}
}

// EmployeeDayFilter фильтр выборки записей сотрудника на конкретную дату
type EmployeeDayFilter struct {
	CompanyID       int64
	EmployeeID      int64
	Date            time.Time // только дата, время игнорируется
	IncludeInactive bool      // включать ли отменённые записи
}

// EmployeeRangeFilter фильтр выборки записей сотрудника за период
type EmployeeRangeFilter struct {
	EmployeeID      int64
	StartDate       time.Time
	EndDate         time.Time
	IncludeInactive bool
}
