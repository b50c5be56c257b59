package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/VEA-SchedulingService/internal/service/appointments/models"
)

// Service сервис для работы с существующими записями:
// отмена, расписания сотрудников, история клиента
type Service struct {
	appointmentRepo AppointmentRepository
	blockRepo       BlockRepository
	catalogRepo     CatalogRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	blockRepo BlockRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		blockRepo:       blockRepo,
		catalogRepo:     catalogRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Cancel отменяет запись
// Отменить может клиент, которому принадлежит запись, или менеджер компании
// Повторная отмена возвращает ErrAlreadyCancelled
func (s *Service) Cancel(ctx context.Context, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: appointment id=%d, user=%d, role=%s", req.AppointmentID, req.Actor.UserID, req.Actor.Role)

	appointment, err := s.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if err := s.checkCancelAccess(appointment, req.Actor); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.Actor.UserID, req.AppointmentID)
		return nil, err
	}

	if appointment.IsCancelled() {
		s.logger.Warn("Cancel: appointment id=%d is already cancelled", req.AppointmentID)
		return nil, ErrAlreadyCancelled
	}

	if err := s.appointmentRepo.Cancel(ctx, req.AppointmentID); err != nil {
		if errors.Is(err, appointmentRepo.ErrAlreadyCancelled) {
			return nil, ErrAlreadyCancelled
		}
		s.logger.Error("Cancel: failed to cancel appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Перечитываем запись, чтобы вернуть актуальные статус и cancelledAt
	cancelled, err := s.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		s.logger.Error("Cancel: failed to reload appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", req.AppointmentID)

	responses, err := s.toResponses(ctx, []*domain.Appointment{cancelled}, true)
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// GetAgendaDay возвращает расписание сотрудника на день: активные записи
// и блокировки времени, отсортированные по времени начала
// Доступно только менеджерам компании
func (s *Service) GetAgendaDay(ctx context.Context, req *models.GetAgendaDayRequest) (*models.AgendaDayResponse, error) {
	s.logger.Info("GetAgendaDay: company=%d, employee=%d, date=%s, user=%d",
		req.CompanyID, req.EmployeeID, req.Date.Format(domain.DateFormat), req.Actor.UserID)

	if !req.Actor.IsManagerOf(req.CompanyID) {
		s.logger.Warn("GetAgendaDay: access denied for user=%d to company id=%d", req.Actor.UserID, req.CompanyID)
		return nil, ErrAccessDenied
	}

	if err := s.checkEmployee(ctx, req.CompanyID, req.EmployeeID); err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.ListByEmployeeAndDate(ctx, domain.EmployeeDayFilter{
		CompanyID:  req.CompanyID,
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
	})
	if err != nil {
		s.logger.Error("GetAgendaDay: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: GetAgendaDay - repository error: %v", ErrInternal, err)
	}

	blocks, err := s.blockRepo.ListByEmployeeAndDate(ctx, req.EmployeeID, req.Date)
	if err != nil {
		s.logger.Error("GetAgendaDay: failed to get blocks: %v", err)
		return nil, fmt.Errorf("%w: GetAgendaDay - repository error: %v", ErrInternal, err)
	}

	apptResponses, err := s.toResponses(ctx, appointments, true)
	if err != nil {
		return nil, err
	}

	entries := buildAgendaEntries(apptResponses, blocks)

	s.logger.Info("GetAgendaDay: %d entries for employee=%d on %s",
		len(entries), req.EmployeeID, req.Date.Format(domain.DateFormat))

	return &models.AgendaDayResponse{
		EmployeeID: req.EmployeeID,
		Date:       req.Date.Format(domain.DateFormat),
		Entries:    entries,
	}, nil
}

// GetClientAppointments возвращает активные записи клиента, сначала новые
// Клиент видит только свои записи; менеджер - записи клиентов своей компании
func (s *Service) GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: client=%d, user=%d, role=%s", req.ClientID, req.Actor.UserID, req.Actor.Role)

	if err := s.checkClientListAccess(req); err != nil {
		s.logger.Warn("GetClientAppointments: access denied for user=%d to client id=%d", req.Actor.UserID, req.ClientID)
		return nil, err
	}

	companyID := req.CompanyID
	if req.Actor.Role == models.RoleManager {
		// Менеджер всегда ограничен своей компанией
		companyID = req.Actor.CompanyID
	}

	appointments, err := s.appointmentRepo.ListByClient(ctx, req.ClientID, companyID)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	responses, err := s.toResponses(ctx, appointments, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetClientAppointments: %d appointments for client id=%d", len(responses), req.ClientID)

	return &models.AppointmentListResponse{Appointments: responses}, nil
}

// GetEmployeeAgenda возвращает расписание сотрудника за период:
// today - текущий день, week - ближайшие 7 дней, month - ближайшие 30 дней
// Доступно только менеджерам компании
func (s *Service) GetEmployeeAgenda(ctx context.Context, req *models.GetEmployeeAgendaRequest) (*models.EmployeeAgendaResponse, error) {
	s.logger.Info("GetEmployeeAgenda: company=%d, employee=%d, period=%s, user=%d",
		req.CompanyID, req.EmployeeID, req.Period, req.Actor.UserID)

	if err := models.ValidatePeriod(req.Period); err != nil {
		s.logger.Warn("GetEmployeeAgenda: invalid period %q", req.Period)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !req.Actor.IsManagerOf(req.CompanyID) {
		s.logger.Warn("GetEmployeeAgenda: access denied for user=%d to company id=%d", req.Actor.UserID, req.CompanyID)
		return nil, ErrAccessDenied
	}

	if err := s.checkEmployee(ctx, req.CompanyID, req.EmployeeID); err != nil {
		return nil, err
	}

	startDate, endDate := periodRange(req.Period, s.timeProvider.Now())

	appointments, err := s.appointmentRepo.ListByEmployeeRange(ctx, domain.EmployeeRangeFilter{
		EmployeeID: req.EmployeeID,
		StartDate:  startDate,
		EndDate:    endDate,
	})
	if err != nil {
		s.logger.Error("GetEmployeeAgenda: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: GetEmployeeAgenda - repository error: %v", ErrInternal, err)
	}

	blocks, err := s.blockRepo.ListByEmployeeRange(ctx, req.EmployeeID, startDate, endDate)
	if err != nil {
		s.logger.Error("GetEmployeeAgenda: failed to get blocks: %v", err)
		return nil, fmt.Errorf("%w: GetEmployeeAgenda - repository error: %v", ErrInternal, err)
	}

	apptResponses, err := s.toResponses(ctx, appointments, true)
	if err != nil {
		return nil, err
	}

	blockResponses := make([]models.BlockResponse, 0, len(blocks))
	for _, blk := range blocks {
		blockResponses = append(blockResponses, *models.FromDomainBlock(blk))
	}

	s.logger.Info("GetEmployeeAgenda: %d appointments, %d blocks for employee=%d, period=%s",
		len(apptResponses), len(blockResponses), req.EmployeeID, req.Period)

	return &models.EmployeeAgendaResponse{
		EmployeeID:   req.EmployeeID,
		Period:       req.Period,
		StartDate:    startDate.Format(domain.DateFormat),
		EndDate:      endDate.Format(domain.DateFormat),
		Appointments: apptResponses,
		Blocks:       blockResponses,
	}, nil
}

// checkCancelAccess проверяет права на отмену записи
func (s *Service) checkCancelAccess(appointment *domain.Appointment, actor models.Actor) error {
	if actor.IsManagerOf(appointment.CompanyID) {
		return nil
	}

	if appointment.ClientID != nil && *appointment.ClientID == actor.UserID {
		return nil
	}

	return ErrAccessDenied
}

// checkClientListAccess проверяет права на просмотр записей клиента
func (s *Service) checkClientListAccess(req *models.GetClientAppointmentsRequest) error {
	if req.Actor.UserID == req.ClientID && req.Actor.Role == models.RoleClient {
		return nil
	}

	if req.Actor.Role == models.RoleManager && req.Actor.CompanyID != nil {
		return nil
	}

	return ErrAccessDenied
}

// checkEmployee проверяет, что сотрудник существует и принадлежит компании
func (s *Service) checkEmployee(ctx context.Context, companyID, employeeID int64) error {
	employee, err := s.catalogRepo.GetEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrEmployeeNotFound) {
			s.logger.Warn("checkEmployee: employee id=%d not found", employeeID)
			return ErrEmployeeNotFound
		}
		s.logger.Error("checkEmployee: repository error for employee id=%d: %v", employeeID, err)
		return fmt.Errorf("%w: checkEmployee - repository error: %v", ErrInternal, err)
	}

	if employee.CompanyID != companyID {
		s.logger.Warn("checkEmployee: employee id=%d does not belong to company id=%d", employeeID, companyID)
		return ErrEmployeeNotFound
	}

	return nil
}

// toResponses конвертирует записи в DTO, дозагружая услуги одним запросом
// и, при withClientNames, имена клиентов
func (s *Service) toResponses(ctx context.Context, appointments []*domain.Appointment, withClientNames bool) ([]models.AppointmentResponse, error) {
	serviceIDSet := make(map[int64]struct{})
	for _, appt := range appointments {
		for _, id := range appt.ServiceIDs {
			serviceIDSet[id] = struct{}{}
		}
	}

	var services []*domain.Service
	if len(serviceIDSet) > 0 {
		ids := make([]int64, 0, len(serviceIDSet))
		for id := range serviceIDSet {
			ids = append(ids, id)
		}

		var err error
		services, err = s.catalogRepo.GetServicesByIDs(ctx, ids)
		if err != nil {
			s.logger.Error("toResponses: failed to get services: %v", err)
			return nil, fmt.Errorf("%w: toResponses - repository error: %v", ErrInternal, err)
		}
	}

	responses := make([]models.AppointmentResponse, 0, len(appointments))
	for _, appt := range appointments {
		var clientName *string
		if withClientNames && appt.ClientID != nil {
			name, err := s.catalogRepo.GetClientName(ctx, *appt.ClientID)
			if err != nil {
				// Имя клиента - обогащение, не причина ронять запрос
				s.logger.Warn("toResponses: failed to get client name for id=%d: %v", *appt.ClientID, err)
			} else {
				clientName = &name
			}
		}

		info := models.ServiceInfosFromDomain(appt.ServiceIDs, services)
		responses = append(responses, *models.FromDomainAppointment(appt, info, clientName))
	}

	return responses, nil
}

// buildAgendaEntries объединяет записи и блокировки в единое расписание дня
func buildAgendaEntries(appointments []models.AppointmentResponse, blocks []*domain.EmployeeBlock) []models.AgendaEntry {
	entries := make([]models.AgendaEntry, 0, len(appointments)+len(blocks))

	for i := range appointments {
		appt := appointments[i]
		entries = append(entries, models.AgendaEntry{
			Type:        models.EntryAppointment,
			StartTime:   appt.StartTime,
			EndTime:     appt.EndTime,
			Appointment: &appt,
		})
	}

	for _, blk := range blocks {
		resp := models.FromDomainBlock(blk)
		entries = append(entries, models.AgendaEntry{
			Type:      models.EntryBlock,
			StartTime: resp.StartTime,
			EndTime:   resp.EndTime,
			Block:     resp,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime < entries[j].StartTime
	})

	return entries
}

// periodRange вычисляет границы периода расписания от текущего дня
func periodRange(period string, now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case models.PeriodWeek:
		return start, start.AddDate(0, 0, 6)
	case models.PeriodMonth:
		return start, start.AddDate(0, 0, 29)
	default:
		return start, start
	}
}
