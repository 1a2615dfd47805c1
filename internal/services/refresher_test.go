package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/prop-edge/internal/cache"
	"github.com/stitts-dev/prop-edge/internal/edge"
	"github.com/stitts-dev/prop-edge/internal/history"
	"github.com/stitts-dev/prop-edge/internal/statsource"
)

func newTestRefresher(source statsource.Source, schedule string) (*Refresher, *history.Tracker) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	statCache := cache.New(cache.NewMemoryStore(), 24*time.Hour, log)
	engine := edge.NewEngine(edge.Config{MinObservations: 5, Window: 5})
	store := history.NewMemoryStore()
	tracker := history.NewTracker(store, store, log)

	evaluator := NewEvaluator(statCache, source, engine, tracker, log, EvaluatorConfig{
		CacheTTL:      time.Hour,
		LookbackGames: 10,
		EdgeThreshold: 2.0,
		MinStreak:     2,
		DefaultOdds:   -110,
	})
	return NewRefresher(evaluator, tracker, statCache, schedule, log), tracker
}

func TestRunOnceRefreshesEveryTrackedLine(t *testing.T) {
	source := &stubSource{series: map[string][]float64{
		"p1:PTS": {30, 32, 28, 31, 29},
		"p2:REB": {8, 9, 10, 8, 9},
	}}
	refresher, tracker := newTestRefresher(source, "0 10 * * *")
	ctx := context.Background()

	_, err := tracker.RecordLine(ctx, "p1", "PTS", 24.5, time.Now())
	require.NoError(t, err)
	_, err = tracker.RecordLine(ctx, "p2", "REB", 9.5, time.Now())
	require.NoError(t, err)

	require.NoError(t, refresher.RunOnce(ctx))
	assert.Equal(t, 2, source.calls)

	status := refresher.Status()
	assert.False(t, status.LastRun.IsZero())
	assert.NoError(t, status.LastError)
}

func TestRunOnceToleratesPerPropFailures(t *testing.T) {
	// Only one of the two tracked props has data; the pass still completes.
	source := &stubSource{series: map[string][]float64{
		"p1:PTS": {30, 32, 28, 31, 29},
	}}
	refresher, tracker := newTestRefresher(source, "0 10 * * *")
	ctx := context.Background()

	_, err := tracker.RecordLine(ctx, "p1", "PTS", 24.5, time.Now())
	require.NoError(t, err)
	_, err = tracker.RecordLine(ctx, "p9", "AST", 7.5, time.Now())
	require.NoError(t, err)

	assert.NoError(t, refresher.RunOnce(ctx))
}

func TestStartRejectsDoubleStart(t *testing.T) {
	source := &stubSource{series: map[string][]float64{}}
	refresher, _ := newTestRefresher(source, "0 10 * * *")

	require.NoError(t, refresher.Start())
	defer refresher.Stop()

	assert.Error(t, refresher.Start())
}

// blockingSource parks every fetch until released, so a scheduled refresh
// can be held mid-job from the test.
type blockingSource struct {
	started   chan struct{}
	release   chan struct{}
	startOnce sync.Once
}

func (s *blockingSource) FetchRecentStats(context.Context, string, string, int) ([]float64, error) {
	s.startOnce.Do(func() { close(s.started) })
	<-s.release
	return []float64{30, 32, 28, 31, 29}, nil
}

func TestStopReturnsWhileJobIsRunning(t *testing.T) {
	source := &blockingSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	refresher, tracker := newTestRefresher(source, "@every 10ms")
	ctx := context.Background()

	_, err := tracker.RecordLine(ctx, "p1", "PTS", 24.5, time.Now())
	require.NoError(t, err)

	require.NoError(t, refresher.Start())

	// Wait until a scheduled job is parked inside its fetch.
	select {
	case <-source.started:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled refresh never started")
	}

	stopped := make(chan struct{})
	go func() {
		refresher.Stop()
		close(stopped)
	}()

	// Let Stop reach its wait on the in-flight job before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(source.release)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the running job finished")
	}

	assert.False(t, refresher.Status().Running)
}
