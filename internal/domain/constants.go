package domain

// Slot generation constants
const (
	// SlotStepMinutes шаг сетки кандидатных слотов
	SlotStepMinutes = 15
)

// Business validation constants
const (
	MinServiceDurationMinutes = 1
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxServicesPerAppointment = 10
	MaxBlockReasonLength      = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
