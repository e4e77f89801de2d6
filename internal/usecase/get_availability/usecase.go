package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-TableBookingService/pkg/types"
)

// UseCase use case для расчета доступности слотов филиала на дату
type UseCase struct {
	settingsRepo  SettingsRepository
	slotRepo      SlotRepository
	bookingRepo   BookingRepository
	overrideRepo  OverrideRepository
	cache         AvailabilityCache
	location      *time.Location
	cutoffMinutes int
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	settingsRepo SettingsRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	overrideRepo OverrideRepository,
	cache AvailabilityCache,
	location *time.Location,
	cutoffMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		settingsRepo:  settingsRepo,
		slotRepo:      slotRepo,
		bookingRepo:   bookingRepo,
		overrideRepo:  overrideRepo,
		cache:         cache,
		location:      location,
		cutoffMinutes: cutoffMinutes,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: branch=%d, date=%s, bookableOnly=%t",
		req.BranchID, req.Date.Format(domain.DateFormat), req.BookableOnly)

	// 1. Валидация входных данных
	if req.BranchID <= 0 {
		return nil, fmt.Errorf("%w: branchId must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date := domain.DateOnly(req.Date)

	// 2. Текущее локальное время филиала
	now := domain.WallClock(uc.timeProvider.Now(), uc.location)

	// 3. Настройки филиала
	settings, err := uc.settingsRepo.GetByBranchID(ctx, req.BranchID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Warn("GetAvailability: branch=%d has no booking settings", req.BranchID)
			return nil, fmt.Errorf("%w: branch=%d", domain.ErrConfigurationMissing, req.BranchID)
		}
		uc.logger.Error("GetAvailability: failed to get settings for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// 4. Остатки по слотам (из кэша или расчетом)
	list, err := uc.availability(ctx, req.BranchID, date, now)
	if err != nil {
		uc.logger.Error("GetAvailability: branch=%d, date=%s: %v", req.BranchID, date.Format(domain.DateFormat), err)
		return nil, err
	}

	// 5. Политика окна бронирования
	if req.BookableOnly {
		list, err = uc.filterBookable(list, settings, date, now)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to apply booking window for branch=%d: %v", req.BranchID, err)
			return nil, fmt.Errorf("%w: booking window: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("GetAvailability: branch=%d, date=%s, %d slots",
		req.BranchID, date.Format(domain.DateFormat), len(list))

	return &Response{
		BranchID:     req.BranchID,
		Date:         date,
		Slots:        list,
		Availability: domain.AvailabilityMap(list),
	}, nil
}

// availability считает остатки. Сегодняшняя дата не кэшируется:
// учет пришедших гостей в текущем слоте зависит от момента запроса.
func (uc *UseCase) availability(ctx context.Context, branchID int64, date, now time.Time) ([]domain.SlotAvailability, error) {
	cacheable := uc.cache != nil && !domain.SameDate(date, now)
	var version int64
	if cacheable {
		list, v, ok := uc.cache.Get(ctx, branchID, date)
		if ok {
			return list, nil
		}
		version = v
	}

	slots, err := uc.slotRepo.ListByBranchAndDate(ctx, branchID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	ids := make([]int64, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}

	bookings, err := uc.bookingRepo.GetBySlotIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	overrides, err := uc.overrideRepo.ListByBranch(ctx, branchID, &date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get overrides: %v", ErrInternal, err)
	}

	list := domain.CalculateAvailability(date, slots, bookings, overrides, now)

	if cacheable {
		if err := uc.cache.Set(ctx, branchID, date, version, list); err != nil {
			uc.logger.Warn("GetAvailability: failed to cache availability for branch=%d: %v", branchID, err)
		}
	}

	return list, nil
}

func (uc *UseCase) filterBookable(
	list []domain.SlotAvailability,
	settings *domain.BranchBookingSettings,
	date, now time.Time,
) ([]domain.SlotAvailability, error) {
	times, err := BookableTimes(settings, date, now, uc.cutoffMinutes)
	if err != nil {
		return nil, err
	}

	allowed := make(map[types.TimeString]bool, len(times))
	for _, t := range times {
		allowed[t] = true
	}

	result := make([]domain.SlotAvailability, 0, len(list))
	for _, a := range list {
		if a.Closed || !allowed[types.NewTimeString(a.StartTime)] {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}
