package blocks

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	blockRepo "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/block"
	catalogRepo "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/catalog"
	appointmentModels "github.com/m04kA/VEA-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/VEA-SchedulingService/internal/service/blocks/models"
	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBlockRepo struct {
	nextID  int64
	byID    map[int64]*domain.EmployeeBlock
	deleted []int64
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{byID: make(map[int64]*domain.EmployeeBlock)}
}

func (f *fakeBlockRepo) Create(ctx context.Context, blk *domain.EmployeeBlock) (*domain.EmployeeBlock, error) {
	f.nextID++
	blk.ID = f.nextID
	f.byID[blk.ID] = blk
	return blk, nil
}

func (f *fakeBlockRepo) GetByID(ctx context.Context, id int64) (*domain.EmployeeBlock, error) {
	blk, ok := f.byID[id]
	if !ok {
		return nil, blockRepo.ErrBlockNotFound
	}
	return blk, nil
}

func (f *fakeBlockRepo) ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]*domain.EmployeeBlock, error) {
	return nil, nil
}

func (f *fakeBlockRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return blockRepo.ErrBlockNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCatalogRepo struct {
	employee *domain.Employee
}

func (f *fakeCatalogRepo) GetEmployee(ctx context.Context, employeeID int64) (*domain.Employee, error) {
	if f.employee == nil || f.employee.ID != employeeID {
		return nil, catalogRepo.ErrEmployeeNotFound
	}
	return f.employee, nil
}

func managerActor(companyID int64) appointmentModels.Actor {
	return appointmentModels.Actor{UserID: 900, Role: appointmentModels.RoleManager, CompanyID: &companyID}
}

func clientActor(userID int64) appointmentModels.Actor {
	return appointmentModels.Actor{UserID: userID, Role: appointmentModels.RoleClient}
}

func newTestService(repo *fakeBlockRepo) *Service {
	catalog := &fakeCatalogRepo{
		employee: &domain.Employee{ID: 10, CompanyID: 1, Name: "Anna", IsActive: true, EmailVerified: true},
	}
	return NewService(repo, catalog, nopLogger{})
}

func validCreateRequest() *models.CreateBlockRequest {
	return &models.CreateBlockRequest{
		CompanyID:  1,
		EmployeeID: 10,
		Date:       time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC),
		StartTime:  types.TimeString("12:00"),
		EndTime:    types.TimeString("13:00"),
		Reason:     "lunch",
		Actor:      managerActor(1),
	}
}

func TestCreate_Success(t *testing.T) {
	repo := newFakeBlockRepo()
	svc := newTestService(repo)

	resp, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "2025-12-20", resp.Date)
	assert.Equal(t, "12:00", resp.StartTime)
	assert.Equal(t, "13:00", resp.EndTime)
	assert.Equal(t, "lunch", resp.Reason)
}

func TestCreate_RequiresManager(t *testing.T) {
	svc := newTestService(newFakeBlockRepo())

	req := validCreateRequest()
	req.Actor = clientActor(500)

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateBlockRequest)
	}{
		{"end before start", func(r *models.CreateBlockRequest) { r.StartTime, r.EndTime = "13:00", "12:00" }},
		{"zero-length block", func(r *models.CreateBlockRequest) { r.EndTime = r.StartTime }},
		{"malformed start", func(r *models.CreateBlockRequest) { r.StartTime = "noon" }},
		{"zero date", func(r *models.CreateBlockRequest) { r.Date = time.Time{} }},
		{"reason too long", func(r *models.CreateBlockRequest) { r.Reason = strings.Repeat("x", domain.MaxBlockReasonLength+1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeBlockRepo())
			req := validCreateRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreate_EmployeeFromAnotherCompany(t *testing.T) {
	repo := newFakeBlockRepo()
	svc := newTestService(repo)

	req := validCreateRequest()
	req.CompanyID = 1
	req.Actor = managerActor(1)
	svc.catalogRepo.(*fakeCatalogRepo).employee.CompanyID = 2

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestDelete_Success(t *testing.T) {
	repo := newFakeBlockRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), &models.DeleteBlockRequest{
		CompanyID: 1,
		BlockID:   created.ID,
		Actor:     managerActor(1),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{created.ID}, repo.deleted)
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(newFakeBlockRepo())

	err := svc.Delete(context.Background(), &models.DeleteBlockRequest{
		CompanyID: 1,
		BlockID:   42,
		Actor:     managerActor(1),
	})
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestDelete_ForeignManagerDenied(t *testing.T) {
	repo := newFakeBlockRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), &models.DeleteBlockRequest{
		CompanyID: 2,
		BlockID:   created.ID,
		Actor:     managerActor(2),
	})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
	assert.Empty(t, repo.deleted)
}
