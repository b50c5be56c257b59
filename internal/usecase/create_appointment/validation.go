package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CompanyID <= 0 {
		return fmt.Errorf("%w: companyID must be positive", ErrInvalidInput)
	}

	if req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	if req.ClientID != nil && *req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerAppointment {
		return fmt.Errorf("%w: at most %d services per appointment", ErrInvalidInput, domain.MaxServicesPerAppointment)
	}

	seen := make(map[int64]struct{}, len(req.ServiceIDs))
	for _, serviceID := range req.ServiceIDs {
		if serviceID <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if _, ok := seen[serviceID]; ok {
			return fmt.Errorf("%w: duplicate serviceID %d", ErrInvalidInput, serviceID)
		}
		seen[serviceID] = struct{}{}
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}

	// Запись начинается только на сетке кандидатных слотов
	startMinutes, err := req.StartTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	if startMinutes%domain.SlotStepMinutes != 0 {
		return fmt.Errorf("%w: startTime must be aligned to %d-minute step", ErrInvalidInput, domain.SlotStepMinutes)
	}

	return nil
}

// validateDate проверяет, что дата записи не в прошлом
func validateDate(date, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return fmt.Errorf("%w: date must not be in the past", ErrInvalidInput)
	}
	return nil
}
