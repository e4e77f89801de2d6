// Package materializer периодически поддерживает скользящее окно слотов всех филиалов
package materializer

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/internal/usecase/materialize_slots"
)

// SettingsLister список настроек всех филиалов
type SettingsLister interface {
	ListAll(ctx context.Context) ([]*domain.BranchBookingSettings, error)
}

// Materializer материализация слотов одного филиала
type Materializer interface {
	ExecuteForSettings(ctx context.Context, settings *domain.BranchBookingSettings, days int) (*materialize_slots.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Worker фоновый материализатор. Первый прогон выполняется сразу при старте.
type Worker struct {
	settings     SettingsLister
	materializer Materializer
	interval     time.Duration
	days         int
	logger       Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New создает воркер. days = 0 означает горизонт из настроек филиала.
func New(settings SettingsLister, materializer Materializer, interval time.Duration, days int, logger Logger) *Worker {
	return &Worker{
		settings:     settings,
		materializer: materializer,
		interval:     interval,
		days:         days,
		logger:       logger,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start запускает цикл воркера и блокируется до остановки
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()
	defer close(w.doneCh)

	w.logger.Info("slot materializer started, interval=%s", w.interval)

	w.RunOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("slot materializer stopped by context")
			return
		case <-w.stopCh:
			w.logger.Info("slot materializer stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// Stop останавливает воркер и дожидается завершения текущего прогона
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
}

// RunOnce материализует слоты для всех филиалов с настройками
func (w *Worker) RunOnce(ctx context.Context) {
	list, err := w.settings.ListAll(ctx)
	if err != nil {
		w.logger.Error("slot materializer: failed to list branch settings: %v", err)
		return
	}

	var created, failed int
	for _, settings := range list {
		if ctx.Err() != nil {
			return
		}
		resp, err := w.materializer.ExecuteForSettings(ctx, settings, w.days)
		if err != nil {
			w.logger.Warn("slot materializer: branch=%d: %v", settings.BranchID, err)
			continue
		}
		created += resp.Created
		failed += resp.Failed
	}

	w.logger.Info("slot materializer: %d branches, created=%d failed=%d", len(list), created, failed)
}
