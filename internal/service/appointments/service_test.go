package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/VEA-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/VEA-SchedulingService/pkg/ptr"
	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeAppointmentRepo struct {
	byID      map[int64]*domain.Appointment
	byDay     []*domain.Appointment
	byRange   []*domain.Appointment
	byClient  []*domain.Appointment
	cancelled []int64

	lastRangeFilter domain.EmployeeRangeFilter
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

func (f *fakeAppointmentRepo) ListByEmployeeAndDate(ctx context.Context, filter domain.EmployeeDayFilter) ([]*domain.Appointment, error) {
	return f.byDay, nil
}

func (f *fakeAppointmentRepo) ListByEmployeeRange(ctx context.Context, filter domain.EmployeeRangeFilter) ([]*domain.Appointment, error) {
	f.lastRangeFilter = filter
	return f.byRange, nil
}

func (f *fakeAppointmentRepo) ListByClient(ctx context.Context, clientID int64, companyID *int64) ([]*domain.Appointment, error) {
	return f.byClient, nil
}

func (f *fakeAppointmentRepo) Cancel(ctx context.Context, id int64) error {
	appt, ok := f.byID[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	if appt.IsCancelled() {
		return appointmentRepo.ErrAlreadyCancelled
	}
	appt.Status = domain.StatusCancelled
	appt.CancelledAt = ptr.Ptr(time.Now())
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakeBlockRepo struct {
	blocks []*domain.EmployeeBlock
}

func (f *fakeBlockRepo) ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]*domain.EmployeeBlock, error) {
	return f.blocks, nil
}

func (f *fakeBlockRepo) ListByEmployeeRange(ctx context.Context, employeeID int64, startDate, endDate time.Time) ([]*domain.EmployeeBlock, error) {
	return f.blocks, nil
}

type fakeCatalogRepo struct {
	employee *domain.Employee
	services []*domain.Service
	clients  map[int64]string
}

func (f *fakeCatalogRepo) GetEmployee(ctx context.Context, employeeID int64) (*domain.Employee, error) {
	if f.employee == nil || f.employee.ID != employeeID {
		return nil, catalogRepo.ErrEmployeeNotFound
	}
	return f.employee, nil
}

func (f *fakeCatalogRepo) GetServicesByIDs(ctx context.Context, serviceIDs []int64) ([]*domain.Service, error) {
	result := make([]*domain.Service, 0)
	for _, svc := range f.services {
		for _, id := range serviceIDs {
			if svc.ID == id {
				result = append(result, svc)
			}
		}
	}
	return result, nil
}

func (f *fakeCatalogRepo) GetClientName(ctx context.Context, clientID int64) (string, error) {
	name, ok := f.clients[clientID]
	if !ok {
		return "", catalogRepo.ErrClientNotFound
	}
	return name, nil
}

func scheduledAppointment(id int64) *domain.Appointment {
	return &domain.Appointment{
		ID:                   id,
		CompanyID:            1,
		EmployeeID:           10,
		ClientID:             ptr.Ptr(int64(500)),
		StartDateTime:        time.Date(2025, time.December, 20, 10, 0, 0, 0, time.UTC),
		EndDateTime:          ptr.Ptr(time.Date(2025, time.December, 20, 11, 0, 0, 0, time.UTC)),
		Status:               domain.StatusScheduled,
		ServiceIDs:           []int64{100},
		TotalDurationMinutes: 60,
		CreatedAt:            time.Now(),
	}
}

func newTestService(appts *fakeAppointmentRepo, blocks *fakeBlockRepo, catalog *fakeCatalogRepo) *Service {
	svc := NewService(appts, blocks, catalog, nopLogger{})
	svc.timeProvider = fixedTime{now: time.Date(2025, time.December, 20, 12, 0, 0, 0, time.UTC)}
	return svc
}

func defaultCatalog() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		employee: &domain.Employee{ID: 10, CompanyID: 1, Name: "Anna", IsActive: true, EmailVerified: true},
		services: []*domain.Service{
			{ID: 100, CompanyID: 1, Name: "Haircut", DurationMinutes: 60, Price: 25, Active: true},
		},
		clients: map[int64]string{500: "Ivan"},
	}
}

func clientActor(userID int64) models.Actor {
	return models.Actor{UserID: userID, Role: models.RoleClient}
}

func managerActor(companyID int64) models.Actor {
	return models.Actor{UserID: 900, Role: models.RoleManager, CompanyID: &companyID}
}

func TestCancel_ByOwningClient(t *testing.T) {
	appts := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: scheduledAppointment(1)}}
	svc := newTestService(appts, &fakeBlockRepo{}, defaultCatalog())

	resp, err := svc.Cancel(context.Background(), &models.CancelAppointmentRequest{
		AppointmentID: 1,
		Actor:         clientActor(500),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.NotNil(t, resp.CancelledAt)
	assert.Equal(t, []int64{1}, appts.cancelled)
}

func TestCancel_ByCompanyManager(t *testing.T) {
	appts := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: scheduledAppointment(1)}}
	svc := newTestService(appts, &fakeBlockRepo{}, defaultCatalog())

	_, err := svc.Cancel(context.Background(), &models.CancelAppointmentRequest{
		AppointmentID: 1,
		Actor:         managerActor(1),
	})
	require.NoError(t, err)
}

func TestCancel_AccessDenied(t *testing.T) {
	tests := []struct {
		name  string
		actor models.Actor
	}{
		{"another client", clientActor(501)},
		{"manager of another company", managerActor(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appts := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: scheduledAppointment(1)}}
			svc := newTestService(appts, &fakeBlockRepo{}, defaultCatalog())

			_, err := svc.Cancel(context.Background(), &models.CancelAppointmentRequest{
				AppointmentID: 1,
				Actor:         tt.actor,
			})
			assert.ErrorIs(t, err, ErrAccessDenied)
			assert.Empty(t, appts.cancelled)
		})
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	appt := scheduledAppointment(1)
	appt.Status = domain.StatusCancelled
	appt.CancelledAt = ptr.Ptr(time.Now())

	appts := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: appt}}
	svc := newTestService(appts, &fakeBlockRepo{}, defaultCatalog())

	_, err := svc.Cancel(context.Background(), &models.CancelAppointmentRequest{
		AppointmentID: 1,
		Actor:         clientActor(500),
	})
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancel_NotFound(t *testing.T) {
	appts := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{}}
	svc := newTestService(appts, &fakeBlockRepo{}, defaultCatalog())

	_, err := svc.Cancel(context.Background(), &models.CancelAppointmentRequest{
		AppointmentID: 42,
		Actor:         clientActor(500),
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetAgendaDay_MergesAndSortsEntries(t *testing.T) {
	appt := scheduledAppointment(1)
	appts := &fakeAppointmentRepo{byDay: []*domain.Appointment{appt}}
	blocks := &fakeBlockRepo{
		blocks: []*domain.EmployeeBlock{
			{
				ID:         7,
				EmployeeID: 10,
				BlockDate:  time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC),
				StartTime:  types.TimeString("09:00"),
				EndTime:    types.TimeString("09:30"),
				Reason:     "meeting",
			},
		},
	}
	svc := newTestService(appts, blocks, defaultCatalog())

	resp, err := svc.GetAgendaDay(context.Background(), &models.GetAgendaDayRequest{
		CompanyID:  1,
		EmployeeID: 10,
		Date:       time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC),
		Actor:      managerActor(1),
	})
	require.NoError(t, err)

	require.Len(t, resp.Entries, 2)
	assert.Equal(t, models.EntryBlock, resp.Entries[0].Type)
	assert.Equal(t, "09:00", resp.Entries[0].StartTime)
	assert.Equal(t, models.EntryAppointment, resp.Entries[1].Type)
	assert.Equal(t, "10:00", resp.Entries[1].StartTime)

	require.NotNil(t, resp.Entries[1].Appointment)
	assert.Equal(t, ptr.Ptr("Ivan"), resp.Entries[1].Appointment.ClientName)
	require.Len(t, resp.Entries[1].Appointment.Services, 1)
	assert.Equal(t, "Haircut", resp.Entries[1].Appointment.Services[0].Name)
}

func TestGetAgendaDay_RequiresManager(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeBlockRepo{}, defaultCatalog())

	_, err := svc.GetAgendaDay(context.Background(), &models.GetAgendaDayRequest{
		CompanyID:  1,
		EmployeeID: 10,
		Date:       time.Now(),
		Actor:      clientActor(500),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetAgendaDay_EmployeeFromAnotherCompany(t *testing.T) {
	catalog := defaultCatalog()
	catalog.employee.CompanyID = 2

	svc := newTestService(&fakeAppointmentRepo{}, &fakeBlockRepo{}, catalog)

	_, err := svc.GetAgendaDay(context.Background(), &models.GetAgendaDayRequest{
		CompanyID:  1,
		EmployeeID: 10,
		Date:       time.Now(),
		Actor:      managerActor(1),
	})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestGetClientAppointments_Self(t *testing.T) {
	appts := &fakeAppointmentRepo{byClient: []*domain.Appointment{scheduledAppointment(1)}}
	svc := newTestService(appts, &fakeBlockRepo{}, defaultCatalog())

	resp, err := svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
		ClientID: 500,
		Actor:    clientActor(500),
	})
	require.NoError(t, err)

	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "2025-12-20", resp.Appointments[0].Date)
	// История клиента не обогащается именем клиента
	assert.Nil(t, resp.Appointments[0].ClientName)
}

func TestGetClientAppointments_ForeignClientDenied(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeBlockRepo{}, defaultCatalog())

	_, err := svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
		ClientID: 500,
		Actor:    clientActor(501),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetEmployeeAgenda_PeriodRanges(t *testing.T) {
	tests := []struct {
		period  string
		wantEnd string
	}{
		{models.PeriodToday, "2025-12-20"},
		{models.PeriodWeek, "2025-12-26"},
		{models.PeriodMonth, "2026-01-18"},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			appts := &fakeAppointmentRepo{}
			svc := newTestService(appts, &fakeBlockRepo{}, defaultCatalog())

			resp, err := svc.GetEmployeeAgenda(context.Background(), &models.GetEmployeeAgendaRequest{
				CompanyID:  1,
				EmployeeID: 10,
				Period:     tt.period,
				Actor:      managerActor(1),
			})
			require.NoError(t, err)

			assert.Equal(t, "2025-12-20", resp.StartDate)
			assert.Equal(t, tt.wantEnd, resp.EndDate)
			assert.Equal(t, int64(10), appts.lastRangeFilter.EmployeeID)
		})
	}
}

func TestGetEmployeeAgenda_InvalidPeriod(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeBlockRepo{}, defaultCatalog())

	_, err := svc.GetEmployeeAgenda(context.Background(), &models.GetEmployeeAgendaRequest{
		CompanyID:  1,
		EmployeeID: 10,
		Period:     "year",
		Actor:      managerActor(1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
