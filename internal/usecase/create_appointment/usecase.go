package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	appointmentStorage "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/appointment"
	catalogStorage "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

// UseCase use case для создания записи на услуги
type UseCase struct {
	appointmentRepo AppointmentRepository
	blockRepo       BlockRepository
	catalogRepo     CatalogRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	blockRepo BlockRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		blockRepo:       blockRepo,
		catalogRepo:     catalogRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Проверка доступности и вставка выполняются в одной сериализуемой транзакции
// с блокировкой записей дня (FOR UPDATE): две конкурентные попытки занять один
// слот не могут обе пройти проверку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: client=%v, company=%d, employee=%d, services=%v, date=%s, time=%s",
		req.ClientID, req.CompanyID, req.EmployeeID, req.ServiceIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем сотрудника и проверяем его принадлежность компании
	employee, err := uc.catalogRepo.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, catalogStorage.ErrEmployeeNotFound) {
			uc.logger.Warn("CreateAppointment: employee id=%d not found", req.EmployeeID)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get employee id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %w", ErrInternal, err)
	}

	if employee.CompanyID != req.CompanyID {
		uc.logger.Warn("CreateAppointment: employee id=%d does not belong to company id=%d",
			req.EmployeeID, req.CompanyID)
		return nil, ErrEmployeeNotFound
	}

	// Неактивный или неподтверждённый сотрудник для записи не существует
	if !employee.IsSchedulable() {
		uc.logger.Warn("CreateAppointment: employee id=%d is not schedulable", req.EmployeeID)
		return nil, ErrEmployeeNotFound
	}

	// 3. Получаем компанию
	company, err := uc.catalogRepo.GetCompany(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, catalogStorage.ErrCompanyNotFound) {
			uc.logger.Warn("CreateAppointment: company id=%d not found", req.CompanyID)
			return nil, ErrCompanyNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get company id=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: failed to get company: %w", ErrInternal, err)
	}

	if !company.IsActive {
		uc.logger.Warn("CreateAppointment: company id=%d is inactive", req.CompanyID)
		return nil, ErrCompanyInactive
	}

	// 4. Рабочее окно компании на запрошенную дату
	window, err := domain.OperatingWindow(company.OperatingHours, req.Date)
	if err != nil {
		if errors.Is(err, domain.ErrHoursNotConfigured) {
			uc.logger.Warn("CreateAppointment: operating hours not configured for company id=%d", req.CompanyID)
			return nil, ErrHoursNotConfigured
		}
		uc.logger.Warn("CreateAppointment: malformed operating hours %q for company id=%d",
			company.OperatingHours, req.CompanyID)
		return nil, ErrInvalidHours
	}

	var result *domain.Appointment

	// 5. Проверка доступности и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Резолвим услуги внутри транзакции: состав и длительность
		// фиксируются на момент записи
		services, err := uc.catalogRepo.GetActiveServices(txCtx, req.CompanyID, req.ServiceIDs)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get services: %v", err)
			return fmt.Errorf("%w: failed to get services: %w", ErrInternal, err)
		}

		if len(services) != len(req.ServiceIDs) {
			uc.logger.Warn("CreateAppointment: resolved %d of %d services for company id=%d",
				len(services), len(req.ServiceIDs), req.CompanyID)
			return ErrServiceNotFound
		}

		totalDuration := 0
		for _, service := range services {
			totalDuration += service.DurationMinutes
		}

		// 5.2. Запись должна целиком помещаться в рабочее окно
		slotStart, err := req.StartTime.OnDate(req.Date)
		if err != nil {
			uc.logger.Warn("CreateAppointment: invalid start time %q: %v", req.StartTime, err)
			return fmt.Errorf("%w: startTime: %w", ErrInvalidInput, err)
		}

		slot := domain.NewSlotRange(slotStart, totalDuration)
		if slot.Start.Before(window.Start) || slot.End.After(window.End) {
			uc.logger.Warn("CreateAppointment: slot %s-%s outside operating window for company id=%d",
				req.StartTime, types.NewTimeString(slot.End), req.CompanyID)
			return ErrOutsideOperatingHours
		}

		// 5.3. Активные записи дня с блокировкой строк и блокировки времени
		appointments, err := uc.appointmentRepo.ListByEmployeeAndDate(txCtx, domain.EmployeeDayFilter{
			CompanyID:  req.CompanyID,
			EmployeeID: req.EmployeeID,
			Date:       req.Date,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		blocks, err := uc.blockRepo.ListByEmployeeAndDate(txCtx, req.EmployeeID, req.Date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get blocks: %v", err)
			return fmt.Errorf("%w: failed to get blocks: %w", ErrInternal, err)
		}

		// 5.4. Проверяем доступность слота
		occupied := domain.BuildOccupancy(appointments, blocks)
		if !domain.FreeAt(occupied, slot) {
			uc.logger.Warn("CreateAppointment: slot %s is not available for employee id=%d on %s",
				req.StartTime, req.EmployeeID, req.Date.Format(domain.DateFormat))
			return ErrSlotNotAvailable
		}

		// 5.5. Создаем запись со снимком услуг
		appointment := &domain.Appointment{
			CompanyID:            req.CompanyID,
			EmployeeID:           req.EmployeeID,
			ClientID:             req.ClientID,
			StartDateTime:        slot.Start,
			EndDateTime:          &slot.End,
			Status:               domain.StatusScheduled,
			ServiceIDs:           req.ServiceIDs,
			TotalDurationMinutes: totalDuration,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			// Exclusion constraint - страховка на случай обхода блокировки строк
			if errors.Is(err, appointmentStorage.ErrSlotTaken) {
				uc.logger.Warn("CreateAppointment: slot %s taken concurrently for employee id=%d",
					req.StartTime, req.EmployeeID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return toResponse(result), nil
}

func toResponse(appt *domain.Appointment) *Response {
	end := appt.End()
	date := time.Date(
		appt.StartDateTime.Year(), appt.StartDateTime.Month(), appt.StartDateTime.Day(),
		0, 0, 0, 0, appt.StartDateTime.Location(),
	)

	return &Response{
		ID:                   appt.ID,
		CompanyID:            appt.CompanyID,
		EmployeeID:           appt.EmployeeID,
		ClientID:             appt.ClientID,
		Date:                 date,
		StartTime:            types.NewTimeString(appt.StartDateTime),
		EndTime:              types.NewTimeString(end),
		TotalDurationMinutes: appt.TotalDurationMinutes,
		Status:               string(appt.Status),
		ServiceIDs:           appt.ServiceIDs,
		CreatedAt:            appt.CreatedAt,
	}
}
