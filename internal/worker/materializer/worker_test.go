package materializer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/internal/usecase/materialize_slots"
	"github.com/m04kA/SMC-TableBookingService/pkg/logger"
)

type staticLister struct {
	list []*domain.BranchBookingSettings
	err  error
}

func (l staticLister) ListAll(context.Context) ([]*domain.BranchBookingSettings, error) {
	return l.list, l.err
}

type recordingMaterializer struct {
	mu       sync.Mutex
	branches []int64
	failFor  int64
}

func (m *recordingMaterializer) ExecuteForSettings(_ context.Context, s *domain.BranchBookingSettings, _ int) (*materialize_slots.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branches = append(m.branches, s.BranchID)
	if s.BranchID == m.failFor {
		return nil, errors.New("boom")
	}
	return &materialize_slots.Response{BranchID: s.BranchID, Created: 1}, nil
}

func (m *recordingMaterializer) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.branches)
}

func TestWorker_RunOnceContinuesAfterBranchFailure(t *testing.T) {
	lister := staticLister{list: []*domain.BranchBookingSettings{{BranchID: 1}, {BranchID: 2}, {BranchID: 3}}}
	m := &recordingMaterializer{failFor: 2}
	w := New(lister, m, time.Hour, 0, logger.NewNop())

	w.RunOnce(context.Background())
	assert.Equal(t, []int64{1, 2, 3}, m.branches)
}

func TestWorker_ListErrorSkipsRun(t *testing.T) {
	m := &recordingMaterializer{}
	w := New(staticLister{err: errors.New("db down")}, m, time.Hour, 0, logger.NewNop())

	w.RunOnce(context.Background())
	assert.Zero(t, m.calls())
}

func TestWorker_RunsAtStartAndStops(t *testing.T) {
	lister := staticLister{list: []*domain.BranchBookingSettings{{BranchID: 1}}}
	m := &recordingMaterializer{}
	w := New(lister, m, 10*time.Millisecond, 0, logger.NewNop())

	go w.Start(context.Background())

	require.Eventually(t, func() bool { return m.calls() >= 2 }, time.Second, 5*time.Millisecond)
	w.Stop()

	stopped := m.calls()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, m.calls())
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	m := &recordingMaterializer{}
	w := New(staticLister{}, m, time.Hour, 0, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}
