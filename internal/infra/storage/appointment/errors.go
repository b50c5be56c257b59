package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается, когда вставка нарушила exclusion constraint
	// по (employee_id, интервал) - слот занят конкурентной записью
	ErrSlotTaken = errors.New("appointment.repository: slot is already taken")

	// ErrAlreadyCancelled возвращается при попытке отменить уже отменённую запись
	ErrAlreadyCancelled = errors.New("appointment.repository: appointment is already cancelled")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
