package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	catalogStorage "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/catalog"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	blockRepo       BlockRepository
	catalogRepo     CatalogRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	blockRepo BlockRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		blockRepo:       blockRepo,
		catalogRepo:     catalogRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, company=%d, employee=%d, services=%v, date=%s",
		req.UserID, req.CompanyID, req.EmployeeID, req.ServiceIDs, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем сотрудника и проверяем его принадлежность компании
	employee, err := uc.catalogRepo.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, catalogStorage.ErrEmployeeNotFound) {
			uc.logger.Warn("GetAvailableSlots: employee id=%d not found", req.EmployeeID)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get employee id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %w", ErrInternal, err)
	}

	if employee.CompanyID != req.CompanyID {
		uc.logger.Warn("GetAvailableSlots: employee id=%d does not belong to company id=%d",
			req.EmployeeID, req.CompanyID)
		return nil, ErrEmployeeNotFound
	}

	// Неактивный или неподтверждённый сотрудник для записи не существует
	if !employee.IsSchedulable() {
		uc.logger.Warn("GetAvailableSlots: employee id=%d is not schedulable", req.EmployeeID)
		return nil, ErrEmployeeNotFound
	}

	// 3. Получаем компанию
	company, err := uc.catalogRepo.GetCompany(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, catalogStorage.ErrCompanyNotFound) {
			uc.logger.Warn("GetAvailableSlots: company id=%d not found", req.CompanyID)
			return nil, ErrCompanyNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get company id=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: failed to get company: %w", ErrInternal, err)
	}

	if !company.IsActive {
		uc.logger.Warn("GetAvailableSlots: company id=%d is inactive", req.CompanyID)
		return nil, ErrCompanyInactive
	}

	// 4. Рабочее окно компании на запрошенную дату
	window, err := domain.OperatingWindow(company.OperatingHours, req.Date)
	if err != nil {
		if errors.Is(err, domain.ErrHoursNotConfigured) {
			uc.logger.Warn("GetAvailableSlots: operating hours not configured for company id=%d", req.CompanyID)
			return nil, ErrHoursNotConfigured
		}
		uc.logger.Warn("GetAvailableSlots: malformed operating hours %q for company id=%d",
			company.OperatingHours, req.CompanyID)
		return nil, ErrInvalidHours
	}

	// 5. Резолвим услуги и считаем суммарную длительность
	services, err := uc.catalogRepo.GetActiveServices(ctx, req.CompanyID, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %w", ErrInternal, err)
	}

	// Каждая запрошенная услуга должна существовать, быть активной
	// и принадлежать компании
	if len(services) != len(req.ServiceIDs) {
		uc.logger.Warn("GetAvailableSlots: resolved %d of %d services for company id=%d",
			len(services), len(req.ServiceIDs), req.CompanyID)
		return nil, ErrServiceNotFound
	}

	totalDuration := 0
	for _, service := range services {
		totalDuration += service.DurationMinutes
	}

	// 6. Занятость сотрудника: активные записи и блокировки дня
	appointments, err := uc.appointmentRepo.ListByEmployeeAndDate(ctx, domain.EmployeeDayFilter{
		CompanyID:  req.CompanyID,
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	blocks, err := uc.blockRepo.ListByEmployeeAndDate(ctx, req.EmployeeID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocks: %w", ErrInternal, err)
	}

	occupied := domain.BuildOccupancy(appointments, blocks)

	// 7. Кандидатные слоты минус занятые интервалы
	candidates := generateCandidateSlots(window, totalDuration)
	free := filterFreeSlots(candidates, occupied)

	uc.logger.Info("GetAvailableSlots: %d of %d slots free for employee=%d, date=%s",
		len(free), len(candidates), req.EmployeeID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:                 req.Date,
		CompanyID:            req.CompanyID,
		EmployeeID:           req.EmployeeID,
		TotalDurationMinutes: totalDuration,
		Slots:                toSlots(free, totalDuration),
	}, nil
}
