package history

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/prop-edge/internal/models"
)

func newTestTracker() *Tracker {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	store := NewMemoryStore()
	return NewTracker(store, store, log)
}

func TestRecordLineFirstObservation(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()
	ts := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	event, err := tracker.RecordLine(ctx, "p1", "PTS", 25.5, ts)
	require.NoError(t, err)
	assert.Nil(t, event, "first observation is not a movement")

	lines, err := tracker.CurrentLines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 25.5, lines[0].Value)

	changes, err := tracker.GetChanges(ctx, ts.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestRecordLineUnchangedValueIsNoOp(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()
	ts := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	_, err := tracker.RecordLine(ctx, "p1", "PTS", 25.5, ts)
	require.NoError(t, err)

	event, err := tracker.RecordLine(ctx, "p1", "PTS", 25.5, ts.Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(t, event)

	changes, err := tracker.GetChanges(ctx, ts.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestRecordLineMovementAppendsOneEvent(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()
	ts := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	_, err := tracker.RecordLine(ctx, "p1", "PTS", 25.5, ts)
	require.NoError(t, err)

	event, err := tracker.RecordLine(ctx, "p1", "PTS", 27.0, ts.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, 25.5, event.PreviousValue)
	assert.Equal(t, 27.0, event.NewValue)
	assert.Equal(t, models.DirectionUp, event.Direction)
	assert.InDelta(t, 1.5, event.Delta, 0.0001)
	assert.False(t, event.Manual)

	lines, err := tracker.CurrentLines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 27.0, lines[0].Value, "current line is replaced by the movement")

	changes, err := tracker.GetChanges(ctx, ts)
	require.NoError(t, err)
	assert.Len(t, changes, 1)
}

func TestRecordLineDownwardMovement(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()
	ts := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	_, err := tracker.RecordLine(ctx, "p1", "REB", 9.5, ts)
	require.NoError(t, err)

	event, err := tracker.RecordLine(ctx, "p1", "REB", 8.5, ts.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, models.DirectionDown, event.Direction)
	assert.InDelta(t, -1.0, event.Delta, 0.0001)
}

func TestEditLineIsFlaggedManual(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()
	ts := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	_, err := tracker.RecordLine(ctx, "p1", "PTS", 25.5, ts)
	require.NoError(t, err)

	event, err := tracker.EditLine(ctx, "p1", "PTS", 24.0, ts.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.True(t, event.Manual)
	assert.Equal(t, models.DirectionDown, event.Direction)
}

func TestEditLineUnknownPairBehavesLikeFirstRecording(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()

	event, err := tracker.EditLine(ctx, "p9", "AST", 7.5, time.Now())
	require.NoError(t, err)
	assert.Nil(t, event)

	lines, err := tracker.CurrentLines(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestGetChangesFiltersBySince(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()
	base := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	_, err := tracker.RecordLine(ctx, "p1", "PTS", 25.5, base)
	require.NoError(t, err)
	_, err = tracker.RecordLine(ctx, "p1", "PTS", 26.5, base.Add(1*time.Hour))
	require.NoError(t, err)
	_, err = tracker.RecordLine(ctx, "p1", "PTS", 27.5, base.Add(3*time.Hour))
	require.NoError(t, err)

	changes, err := tracker.GetChanges(ctx, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, 27.5, changes[0].NewValue)
}

func TestChaseListUpsert(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()

	err := tracker.AddToChaseList(ctx, models.ChaseListEntry{
		PlayerID: "p1", StatType: "PTS", LineValue: 25.5, Reason: "line dropping",
	})
	require.NoError(t, err)

	// Re-adding the same pair overwrites instead of duplicating.
	err = tracker.AddToChaseList(ctx, models.ChaseListEntry{
		PlayerID: "p1", StatType: "PTS", LineValue: 24.5, Reason: "still dropping",
	})
	require.NoError(t, err)

	entries, err := tracker.ListChase(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 24.5, entries[0].LineValue)
	assert.Equal(t, "still dropping", entries[0].Reason)
	assert.False(t, entries[0].AddedAt.IsZero())
}

func TestChaseListRemove(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()

	err := tracker.AddToChaseList(ctx, models.ChaseListEntry{PlayerID: "p1", StatType: "PTS"})
	require.NoError(t, err)

	require.NoError(t, tracker.RemoveFromChaseList(ctx, "p1", "PTS"))

	entries, err := tracker.ListChase(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Removing an absent entry is a no-op.
	assert.NoError(t, tracker.RemoveFromChaseList(ctx, "p1", "PTS"))
}

func TestAltLinesRetainDuplicates(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()

	err := tracker.AddAltLine(ctx, models.AltLineEntry{
		PlayerID: "p1", StatType: "PTS", MainLine: 25.5, AltLine: 22.5, Source: "book-a",
	})
	require.NoError(t, err)
	err = tracker.AddAltLine(ctx, models.AltLineEntry{
		PlayerID: "p1", StatType: "PTS", MainLine: 25.5, AltLine: 22.5, Source: "book-b",
	})
	require.NoError(t, err)

	entries, err := tracker.ListAltLines(ctx, "p1", "PTS")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.InDelta(t, -3.0, entries[0].Delta, 0.0001)

	other, err := tracker.ListAltLines(ctx, "p2", "PTS")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestConcurrentRecordingsSameValue(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()
	ts := time.Now()

	_, err := tracker.RecordLine(ctx, "p1", "PTS", 25.5, ts)
	require.NoError(t, err)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_, err := tracker.RecordLine(ctx, "p1", "PTS", 26.5, time.Now())
			assert.NoError(t, err)
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	// Per-pair serialization: only the first write observed a different
	// previous value, so exactly one event exists.
	changes, err := tracker.GetChanges(ctx, ts.Add(-time.Minute))
	require.NoError(t, err)
	assert.Len(t, changes, 1)
}
