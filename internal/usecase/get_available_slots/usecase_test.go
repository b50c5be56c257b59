package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	catalogStorage "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/VEA-SchedulingService/pkg/ptr"
	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeAppointmentRepo) ListByEmployeeAndDate(ctx context.Context, filter domain.EmployeeDayFilter) ([]*domain.Appointment, error) {
	return f.appointments, f.err
}

type fakeBlockRepo struct {
	blocks []*domain.EmployeeBlock
	err    error
}

func (f *fakeBlockRepo) ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]*domain.EmployeeBlock, error) {
	return f.blocks, f.err
}

type fakeCatalogRepo struct {
	company  *domain.Company
	employee *domain.Employee
	services []*domain.Service
}

func (f *fakeCatalogRepo) GetCompany(ctx context.Context, companyID int64) (*domain.Company, error) {
	if f.company == nil {
		return nil, catalogStorage.ErrCompanyNotFound
	}
	return f.company, nil
}

func (f *fakeCatalogRepo) GetEmployee(ctx context.Context, employeeID int64) (*domain.Employee, error) {
	if f.employee == nil {
		return nil, catalogStorage.ErrEmployeeNotFound
	}
	return f.employee, nil
}

func (f *fakeCatalogRepo) GetActiveServices(ctx context.Context, companyID int64, serviceIDs []int64) ([]*domain.Service, error) {
	result := make([]*domain.Service, 0)
	for _, id := range serviceIDs {
		for _, svc := range f.services {
			if svc.ID == id && svc.Active && svc.CompanyID == companyID {
				result = append(result, svc)
			}
		}
	}
	return result, nil
}

func defaultCatalog() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		company: &domain.Company{
			ID:             1,
			Name:           "Barbershop",
			OperatingHours: "08:00-18:00",
			IsActive:       true,
		},
		employee: &domain.Employee{
			ID:            10,
			CompanyID:     1,
			Name:          "Anna",
			IsActive:      true,
			EmailVerified: true,
		},
		services: []*domain.Service{
			{ID: 100, CompanyID: 1, Name: "Haircut", DurationMinutes: 60, Active: true},
			{ID: 101, CompanyID: 1, Name: "Styling", DurationMinutes: 30, Active: true},
		},
	}
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func newTestUseCase(appts *fakeAppointmentRepo, blocks *fakeBlockRepo, catalog *fakeCatalogRepo) *UseCase {
	uc := NewUseCase(appts, blocks, catalog, nopLogger{})
	uc.timeProvider = fixedClock{now: time.Date(2025, time.December, 1, 12, 0, 0, 0, time.UTC)}
	return uc
}

func dateUTC(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func atTime(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

func validRequest(date time.Time) *Request {
	return &Request{
		UserID:     500,
		CompanyID:  1,
		EmployeeID: 10,
		ServiceIDs: []int64{100},
		Date:       date,
	}
}

func TestExecute_FullDayNoOccupancy(t *testing.T) {
	date := dateUTC(2025, time.December, 20)
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, defaultCatalog())

	resp, err := uc.Execute(context.Background(), validRequest(date))
	require.NoError(t, err)

	// 08:00-18:00, услуга 60 минут, шаг 15 минут: последний старт 17:00
	assert.Len(t, resp.Slots, 37)
	assert.Equal(t, types.TimeString("08:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].EndTime)
	assert.Equal(t, types.TimeString("17:00"), resp.Slots[len(resp.Slots)-1].StartTime)
	assert.Equal(t, 60, resp.TotalDurationMinutes)
}

func TestExecute_TwoServicesSumDuration(t *testing.T) {
	date := dateUTC(2025, time.December, 20)
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, defaultCatalog())

	req := validRequest(date)
	req.ServiceIDs = []int64{100, 101}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 90, resp.TotalDurationMinutes)
	// Последний старт для 90 минут: 16:30
	assert.Equal(t, types.TimeString("16:30"), resp.Slots[len(resp.Slots)-1].StartTime)
}

func TestExecute_AppointmentExcludesOverlappingSlots(t *testing.T) {
	date := dateUTC(2025, time.December, 20)
	appts := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{
			{
				ID:                   1,
				CompanyID:            1,
				EmployeeID:           10,
				StartDateTime:        atTime(date, 10, 0),
				EndDateTime:          ptr.Ptr(atTime(date, 11, 0)),
				Status:               domain.StatusScheduled,
				TotalDurationMinutes: 60,
			},
		},
	}
	uc := newTestUseCase(appts, &fakeBlockRepo{}, defaultCatalog())

	resp, err := uc.Execute(context.Background(), validRequest(date))
	require.NoError(t, err)

	starts := make(map[types.TimeString]bool)
	for _, slot := range resp.Slots {
		starts[slot.StartTime] = true
	}

	// Слоты, пересекающиеся с записью 10:00-11:00, исключены
	for _, excluded := range []types.TimeString{"09:15", "09:30", "09:45", "10:00", "10:15", "10:30", "10:45"} {
		assert.False(t, starts[excluded], "slot %s should be excluded", excluded)
	}

	// Граничные слоты остаются: 09:00 заканчивается ровно в 10:00, 11:00 начинается после
	assert.True(t, starts["09:00"])
	assert.True(t, starts["11:00"])
}

func TestExecute_CancelledAppointmentFreesWindow(t *testing.T) {
	date := dateUTC(2025, time.December, 20)
	appts := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{
			{
				ID:            1,
				CompanyID:     1,
				EmployeeID:    10,
				StartDateTime: atTime(date, 10, 0),
				EndDateTime:   ptr.Ptr(atTime(date, 11, 0)),
				Status:        domain.StatusCancelled,
			},
		},
	}
	uc := newTestUseCase(appts, &fakeBlockRepo{}, defaultCatalog())

	resp, err := uc.Execute(context.Background(), validRequest(date))
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 37)
}

func TestExecute_BlockExcludesSlots(t *testing.T) {
	date := dateUTC(2025, time.December, 20)
	blocks := &fakeBlockRepo{
		blocks: []*domain.EmployeeBlock{
			{
				ID:         1,
				EmployeeID: 10,
				BlockDate:  date,
				StartTime:  types.TimeString("12:00"),
				EndTime:    types.TimeString("13:00"),
				Reason:     "lunch",
			},
		},
	}
	uc := newTestUseCase(&fakeAppointmentRepo{}, blocks, defaultCatalog())

	resp, err := uc.Execute(context.Background(), validRequest(date))
	require.NoError(t, err)

	starts := make(map[types.TimeString]bool)
	for _, slot := range resp.Slots {
		starts[slot.StartTime] = true
	}

	assert.False(t, starts["12:00"])
	assert.False(t, starts["12:45"])
	assert.False(t, starts["11:15"])
	assert.True(t, starts["11:00"])
	assert.True(t, starts["13:00"])
}

func TestExecute_Idempotent(t *testing.T) {
	date := dateUTC(2025, time.December, 20)
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, defaultCatalog())

	first, err := uc.Execute(context.Background(), validRequest(date))
	require.NoError(t, err)

	second, err := uc.Execute(context.Background(), validRequest(date))
	require.NoError(t, err)

	assert.Equal(t, first.Slots, second.Slots)
}

func TestExecute_ValidationErrors(t *testing.T) {
	date := dateUTC(2025, time.December, 20)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty services", func(r *Request) { r.ServiceIDs = nil }},
		{"duplicate services", func(r *Request) { r.ServiceIDs = []int64{100, 100} }},
		{"non-positive service", func(r *Request) { r.ServiceIDs = []int64{0} }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"non-positive employee", func(r *Request) { r.EmployeeID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, defaultCatalog())
			req := validRequest(date)
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_UnknownServiceRejected(t *testing.T) {
	date := dateUTC(2025, time.December, 20)
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, defaultCatalog())

	req := validRequest(date)
	req.ServiceIDs = []int64{100, 999}

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_EmployeeFromAnotherCompany(t *testing.T) {
	date := dateUTC(2025, time.December, 20)
	catalog := defaultCatalog()
	catalog.employee.CompanyID = 2

	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, catalog)

	_, err := uc.Execute(context.Background(), validRequest(date))
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestExecute_UnschedulableEmployee(t *testing.T) {
	date := dateUTC(2025, time.December, 20)

	t.Run("inactive", func(t *testing.T) {
		catalog := defaultCatalog()
		catalog.employee.IsActive = false
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, catalog)

		_, err := uc.Execute(context.Background(), validRequest(date))
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	})

	t.Run("email not verified", func(t *testing.T) {
		catalog := defaultCatalog()
		catalog.employee.EmailVerified = false
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, catalog)

		_, err := uc.Execute(context.Background(), validRequest(date))
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	})
}

func TestExecute_PastDateRejected(t *testing.T) {
	t.Run("yesterday rejected", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, defaultCatalog())

		_, err := uc.Execute(context.Background(), validRequest(dateUTC(2025, time.November, 30)))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("today allowed", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, defaultCatalog())

		result, err := uc.Execute(context.Background(), validRequest(dateUTC(2025, time.December, 1)))
		require.NoError(t, err)
		assert.NotEmpty(t, result.Slots)
	})
}

func TestExecute_InactiveCompany(t *testing.T) {
	date := dateUTC(2025, time.December, 20)
	catalog := defaultCatalog()
	catalog.company.IsActive = false

	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, catalog)

	_, err := uc.Execute(context.Background(), validRequest(date))
	assert.ErrorIs(t, err, ErrCompanyInactive)
}

func TestExecute_OperatingHoursErrors(t *testing.T) {
	date := dateUTC(2025, time.December, 20)

	t.Run("not configured", func(t *testing.T) {
		catalog := defaultCatalog()
		catalog.company.OperatingHours = ""
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, catalog)

		_, err := uc.Execute(context.Background(), validRequest(date))
		assert.ErrorIs(t, err, ErrHoursNotConfigured)
	})

	t.Run("malformed", func(t *testing.T) {
		catalog := defaultCatalog()
		catalog.company.OperatingHours = "8am-6pm"
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, catalog)

		_, err := uc.Execute(context.Background(), validRequest(date))
		assert.ErrorIs(t, err, ErrInvalidHours)
	})
}

func TestExecute_ServiceLongerThanDay(t *testing.T) {
	date := dateUTC(2025, time.December, 20)
	catalog := defaultCatalog()
	catalog.services = append(catalog.services, &domain.Service{
		ID: 102, CompanyID: 1, Name: "Marathon", DurationMinutes: 480, Active: true,
	})
	catalog.company.OperatingHours = "10:00-12:00"

	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeBlockRepo{}, catalog)

	req := validRequest(date)
	req.ServiceIDs = []int64{102}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}
