package get_available_slots

import (
	"time"

	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID     int64     // ID пользователя (для логирования, не влияет на результат)
	CompanyID  int64     // ID компании
	EmployeeID int64     // ID сотрудника
	ServiceIDs []int64   // ID выбранных услуг (минимум одна)
	Date       time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date                 time.Time // Дата, на которую запрашивались слоты
	CompanyID            int64     // ID компании
	EmployeeID           int64     // ID сотрудника
	TotalDurationMinutes int       // Суммарная длительность выбранных услуг
	Slots                []Slot    // Список доступных слотов
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	EndTime         types.TimeString // Время окончания слота
	DurationMinutes int              // Длительность слота в минутах
}
