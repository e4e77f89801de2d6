package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-TableBookingService/internal/service/settings/models"
	"github.com/m04kA/SMC-TableBookingService/pkg/types"
)

// Service сервис настроек бронирования филиалов
type Service struct {
	repo   SettingsRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(repo SettingsRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Get возвращает настройки филиала
func (s *Service) Get(ctx context.Context, branchID int64) (*models.SettingsResponse, error) {
	settings, err := s.repo.GetByBranchID(ctx, branchID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("Get: settings for branch=%d not found", branchID)
			return nil, ErrSettingsNotFound
		}
		s.logger.Error("Get: repository error for branch=%d: %v", branchID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomain(settings), nil
}

// Upsert создает или обновляет настройки филиала.
// Уже материализованные слоты не меняются: вместимость копируется в слот при генерации.
func (s *Service) Upsert(ctx context.Context, branchID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Upsert: branch=%d open=%s close=%s interval=%d seats=%d tables=%d",
		branchID, req.OpenTime, req.CloseTime, req.IntervalMinutes, req.MaxSeatsPerSlot, req.MaxTablesPerSlot)

	if branchID <= 0 {
		return nil, fmt.Errorf("%w: branchId must be positive", ErrInvalidInput)
	}

	openTime, err := types.NewTimeStringFromString(req.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: openTime: %v", ErrInvalidInput, domain.ErrInvalidSettings, err)
	}
	closeTime, err := types.NewTimeStringFromString(req.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: closeTime: %v", ErrInvalidInput, domain.ErrInvalidSettings, err)
	}

	settings := &domain.BranchBookingSettings{
		BranchID:           branchID,
		OpenTime:           openTime,
		CloseTime:          closeTime,
		IntervalMinutes:    req.IntervalMinutes,
		MaxSeatsPerSlot:    req.MaxSeatsPerSlot,
		MaxTablesPerSlot:   req.MaxTablesPerSlot,
		AdvanceBookingDays: req.AdvanceBookingDays,
	}
	if err := settings.Validate(); err != nil {
		s.logger.Warn("Upsert: invalid settings for branch=%d: %v", branchID, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	saved, err := s.repo.Upsert(ctx, settings)
	if err != nil {
		s.logger.Error("Upsert: repository error for branch=%d: %v", branchID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: settings saved for branch=%d", branchID)
	return models.FromDomain(saved), nil
}
