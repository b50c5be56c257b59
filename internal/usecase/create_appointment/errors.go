package create_appointment

import "errors"

var (
	// ErrCompanyNotFound возвращается, когда компания не найдена
	ErrCompanyNotFound = errors.New("company not found")

	// ErrCompanyInactive возвращается, когда компания деактивирована
	ErrCompanyInactive = errors.New("company is inactive")

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден, не принадлежит
	// компании, деактивирован или не подтвердил email
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrServiceNotFound возвращается, когда хотя бы одна услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("service not found")

	// ErrHoursNotConfigured возвращается, когда у компании не настроен график работы
	ErrHoursNotConfigured = errors.New("operating hours are not configured")

	// ErrInvalidHours возвращается, когда график работы компании задан некорректно
	ErrInvalidHours = errors.New("operating hours are malformed")

	// ErrOutsideOperatingHours возвращается, когда запись не помещается в рабочее окно
	ErrOutsideOperatingHours = errors.New("appointment does not fit within operating hours")

	// ErrSlotNotAvailable возвращается, когда слот пересекается с существующей записью или блокировкой
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
