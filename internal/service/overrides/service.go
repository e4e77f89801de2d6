package overrides

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	overrideRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/override"
	"github.com/m04kA/SMC-TableBookingService/internal/service/overrides/models"
)

// Service сервис исключений из расписания (закрытие, изменение вместимости).
// Исключения применяются к слотам только при чтении (domain.ResolveCeiling).
type Service struct {
	repo   OverrideRepository
	cache  AvailabilityCache
	logger Logger
}

// NewService создает новый экземпляр сервиса исключений
func NewService(repo OverrideRepository, cache AvailabilityCache, logger Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Create создает исключение для филиала
func (s *Service) Create(ctx context.Context, branchID int64, req *models.OverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("Create: branch=%d date=%s type=%s", branchID, req.Date, req.OverrideType)

	override, err := s.toValidDomain(branchID, req)
	if err != nil {
		s.logger.Warn("Create: invalid override for branch=%d: %v", branchID, err)
		return nil, err
	}

	created, err := s.repo.Create(ctx, override)
	if err != nil {
		s.logger.Error("Create: repository error for branch=%d: %v", branchID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, branchID, created.Date)

	s.logger.Info("Create: override id=%d created for branch=%d", created.ID, branchID)
	return models.FromDomain(created), nil
}

// Get возвращает исключение филиала по ID
func (s *Service) Get(ctx context.Context, branchID, id int64) (*models.OverrideResponse, error) {
	override, err := s.getOwned(ctx, branchID, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomain(override), nil
}

// List возвращает исключения филиала, опционально на дату
func (s *Service) List(ctx context.Context, branchID int64, date *time.Time) (*models.OverrideListResponse, error) {
	list, err := s.repo.ListByBranch(ctx, branchID, date)
	if err != nil {
		s.logger.Error("List: repository error for branch=%d: %v", branchID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainList(list), nil
}

// Update заменяет исключение целиком
func (s *Service) Update(ctx context.Context, branchID, id int64, req *models.OverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("Update: override id=%d branch=%d", id, branchID)

	existing, err := s.getOwned(ctx, branchID, id)
	if err != nil {
		return nil, err
	}

	override, err := s.toValidDomain(branchID, req)
	if err != nil {
		s.logger.Warn("Update: invalid override id=%d: %v", id, err)
		return nil, err
	}
	override.ID = id

	updated, err := s.repo.Update(ctx, override)
	if err != nil {
		if errors.Is(err, overrideRepo.ErrOverrideNotFound) {
			return nil, ErrOverrideNotFound
		}
		s.logger.Error("Update: repository error for override id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, branchID, existing.Date, updated.Date)

	s.logger.Info("Update: override id=%d updated", id)
	return models.FromDomain(updated), nil
}

// Delete удаляет исключение
func (s *Service) Delete(ctx context.Context, branchID, id int64) error {
	s.logger.Info("Delete: override id=%d branch=%d", id, branchID)

	existing, err := s.getOwned(ctx, branchID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, overrideRepo.ErrOverrideNotFound) {
			return ErrOverrideNotFound
		}
		s.logger.Error("Delete: repository error for override id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, branchID, existing.Date)

	s.logger.Info("Delete: override id=%d deleted", id)
	return nil
}

func (s *Service) getOwned(ctx context.Context, branchID, id int64) (*domain.BookingOverride, error) {
	override, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, overrideRepo.ErrOverrideNotFound) {
			s.logger.Warn("override id=%d not found", id)
			return nil, ErrOverrideNotFound
		}
		s.logger.Error("repository error for override id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if override.BranchID != branchID {
		s.logger.Warn("override id=%d belongs to branch=%d, requested branch=%d", id, override.BranchID, branchID)
		return nil, ErrOverrideNotFound
	}

	return override, nil
}

func (s *Service) toValidDomain(branchID int64, req *models.OverrideRequest) (*domain.BookingOverride, error) {
	override, err := req.ToDomain(branchID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrInvalidInput, domain.ErrOverrideConflict, err)
	}
	if err := override.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return override, nil
}

func (s *Service) invalidate(ctx context.Context, branchID int64, dates ...time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, branchID, dates...); err != nil {
		s.logger.Warn("failed to invalidate availability cache for branch=%d: %v", branchID, err)
	}
}
