package materialize_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/settings"
)

// Исходы для метрик
const (
	outcomeCreated = "created"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"
)

// UseCase use case материализации слотов филиала на ближайшие дни
type UseCase struct {
	settingsRepo SettingsRepository
	slotRepo     SlotRepository
	cache        AvailabilityCache
	metrics      Metrics
	defaultDays  int
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	settingsRepo SettingsRepository,
	slotRepo SlotRepository,
	cache AvailabilityCache,
	metrics Metrics,
	defaultDays int,
	location *time.Location,
	logger Logger,
) *UseCase {
	if defaultDays <= 0 {
		defaultDays = domain.DefaultMaterializeDays
	}
	return &UseCase{
		settingsRepo: settingsRepo,
		slotRepo:     slotRepo,
		cache:        cache,
		metrics:      metrics,
		defaultDays:  defaultDays,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute материализует слоты филиала по его настройкам
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("MaterializeSlots: branch=%d, days=%d", req.BranchID, req.Days)

	if req.BranchID <= 0 {
		return nil, fmt.Errorf("%w: branchId must be positive", ErrInvalidInput)
	}
	if req.Days < 0 || req.Days > domain.MaxMaterializeDays {
		return nil, fmt.Errorf("%w: days must be in [1, %d]", ErrInvalidInput, domain.MaxMaterializeDays)
	}

	settings, err := uc.settingsRepo.GetByBranchID(ctx, req.BranchID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Warn("MaterializeSlots: branch=%d has no booking settings", req.BranchID)
			return nil, fmt.Errorf("%w: branch=%d", domain.ErrConfigurationMissing, req.BranchID)
		}
		uc.logger.Error("MaterializeSlots: failed to get settings for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	return uc.ExecuteForSettings(ctx, settings, req.Days)
}

// ExecuteForSettings материализует слоты на days дней начиная с сегодняшней даты филиала.
// Уже существующие слоты пропускаются, ошибка одного слота не прерывает прогон.
func (uc *UseCase) ExecuteForSettings(ctx context.Context, settings *domain.BranchBookingSettings, days int) (*Response, error) {
	if days <= 0 {
		days = min(settings.WindowDays(uc.defaultDays), domain.MaxMaterializeDays)
	}

	times, err := domain.GenerateSlotTimes(settings.OpenTime, settings.CloseTime, settings.IntervalMinutes)
	if err != nil {
		uc.logger.Error("MaterializeSlots: branch=%d has invalid settings: %v", settings.BranchID, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	today := domain.DateOnly(domain.WallClock(uc.timeProvider.Now(), uc.location))
	resp := &Response{BranchID: settings.BranchID, Days: days}
	touched := make([]time.Time, 0, days)

	for d := 0; d < days; d++ {
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		date := today.AddDate(0, 0, d)
		created := 0
		for _, start := range times {
			slot := domain.NewTimeSlot(settings, date, start)
			inserted, err := uc.slotRepo.InsertIfAbsent(ctx, &slot)
			switch {
			case err != nil:
				resp.Failed++
				uc.logger.Error("MaterializeSlots: branch=%d, %s %s: %v",
					settings.BranchID, date.Format(domain.DateFormat), start, err)
			case inserted:
				resp.Created++
				created++
			default:
				resp.Skipped++
			}
		}
		if created > 0 {
			touched = append(touched, date)
		}
	}

	uc.observe(resp)
	if len(touched) > 0 && uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, settings.BranchID, touched...); err != nil {
			uc.logger.Warn("MaterializeSlots: failed to invalidate availability cache: %v", err)
		}
	}

	uc.logger.Info("MaterializeSlots: branch=%d, days=%d: created=%d skipped=%d failed=%d",
		settings.BranchID, days, resp.Created, resp.Skipped, resp.Failed)
	return resp, nil
}

func (uc *UseCase) observe(resp *Response) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.AddSlotsMaterialized(outcomeCreated, resp.Created)
	uc.metrics.AddSlotsMaterialized(outcomeSkipped, resp.Skipped)
	uc.metrics.AddSlotsMaterialized(outcomeFailed, resp.Failed)
}
