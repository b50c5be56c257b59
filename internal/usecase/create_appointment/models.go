package create_appointment

import (
	"time"

	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ClientID   *int64           // ID клиента (nil для записи от имени компании)
	CompanyID  int64            // ID компании
	EmployeeID int64            // ID сотрудника
	ServiceIDs []int64          // ID выбранных услуг (минимум одна)
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала записи (например, "10:00")
}

// Response модель ответа с созданной записью
type Response struct {
	ID                   int64
	CompanyID            int64
	EmployeeID           int64
	ClientID             *int64
	Date                 time.Time
	StartTime            types.TimeString
	EndTime              types.TimeString
	TotalDurationMinutes int
	Status               string
	ServiceIDs           []int64
	CreatedAt            time.Time
}
