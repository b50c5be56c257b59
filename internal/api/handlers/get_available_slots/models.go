package get_available_slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	getAvailableSlots "github.com/m04kA/VEA-SchedulingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date                 string          `json:"date"`
	CompanyID            int64           `json:"companyId"`
	EmployeeID           int64           `json:"employeeId"`
	TotalDurationMinutes int             `json:"totalDurationMinutes"`
	Slots                []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			DurationMinutes: slot.DurationMinutes,
		}
	}

	return &AvailableSlotsResponse{
		Date:                 resp.Date.Format(domain.DateFormat),
		CompanyID:            resp.CompanyID,
		EmployeeID:           resp.EmployeeID,
		TotalDurationMinutes: resp.TotalDurationMinutes,
		Slots:                slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(userID, companyID, employeeID int64, serviceIDs []int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		UserID:     userID,
		CompanyID:  companyID,
		EmployeeID: employeeID,
		ServiceIDs: serviceIDs,
		Date:       date,
	}, nil
}

// parseServiceIDs парсит список ID услуг из query параметра "1,2,3"
func parseServiceIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))

	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid service id %q", part)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
