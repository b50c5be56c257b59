package blocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	blockRepo "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/block"
	catalogRepo "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/VEA-SchedulingService/internal/service/blocks/models"
)

// Service сервис для управления блокировками времени сотрудников
type Service struct {
	blockRepo   BlockRepository
	catalogRepo CatalogRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(blockRepo BlockRepository, catalogRepo CatalogRepository, logger Logger) *Service {
	return &Service{
		blockRepo:   blockRepo,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// Create создает блокировку времени сотрудника
// Доступно только менеджерам компании
func (s *Service) Create(ctx context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("CreateBlock: company=%d, employee=%d, date=%s, time=%s-%s, user=%d",
		req.CompanyID, req.EmployeeID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime, req.Actor.UserID)

	if !req.Actor.IsManagerOf(req.CompanyID) {
		s.logger.Warn("CreateBlock: access denied for user=%d to company id=%d", req.Actor.UserID, req.CompanyID)
		return nil, ErrAccessDenied
	}

	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("CreateBlock: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkEmployee(ctx, req.CompanyID, req.EmployeeID); err != nil {
		return nil, err
	}

	block := &domain.EmployeeBlock{
		EmployeeID: req.EmployeeID,
		BlockDate:  req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Reason:     req.Reason,
	}

	created, err := s.blockRepo.Create(ctx, block)
	if err != nil {
		s.logger.Error("CreateBlock: failed to create block: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlock: successfully created block id=%d", created.ID)

	return models.FromDomainBlock(created), nil
}

// Delete удаляет блокировку времени
// Доступно только менеджерам компании, которой принадлежит сотрудник
func (s *Service) Delete(ctx context.Context, req *models.DeleteBlockRequest) error {
	s.logger.Info("DeleteBlock: block=%d, company=%d, user=%d", req.BlockID, req.CompanyID, req.Actor.UserID)

	if !req.Actor.IsManagerOf(req.CompanyID) {
		s.logger.Warn("DeleteBlock: access denied for user=%d to company id=%d", req.Actor.UserID, req.CompanyID)
		return ErrAccessDenied
	}

	block, err := s.blockRepo.GetByID(ctx, req.BlockID)
	if err != nil {
		if errors.Is(err, blockRepo.ErrBlockNotFound) {
			s.logger.Warn("DeleteBlock: block id=%d not found", req.BlockID)
			return ErrBlockNotFound
		}
		s.logger.Error("DeleteBlock: repository error for block id=%d: %v", req.BlockID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	// Блокировка принадлежит компании через сотрудника
	if err := s.checkEmployee(ctx, req.CompanyID, block.EmployeeID); err != nil {
		return err
	}

	if err := s.blockRepo.Delete(ctx, req.BlockID); err != nil {
		if errors.Is(err, blockRepo.ErrBlockNotFound) {
			return ErrBlockNotFound
		}
		s.logger.Error("DeleteBlock: failed to delete block id=%d: %v", req.BlockID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteBlock: successfully deleted block id=%d", req.BlockID)

	return nil
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

// validateCreateRequest валидирует запрос на создание блокировки
func validateCreateRequest(req *models.CreateBlockRequest) error {
	if req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}

	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}

	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if len(req.Reason) > domain.MaxBlockReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxBlockReasonLength)
	}

	return nil
}
