package progress_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ytget/spotdl-desktop/internal/progress"
)

func TestApplyTotalSetOnce(t *testing.T) {
	t.Parallel()
	var s progress.State

	s, _ = progress.Apply(s, progress.Event{Kind: progress.KindTotalFound, Total: 42})
	require.True(t, s.TotalKnown)
	require.Equal(t, 42, s.Total)

	s, _ = progress.Apply(s, progress.Event{Kind: progress.KindTotalFound, Total: 7})
	require.Equal(t, 42, s.Total, "second Found line must not change total")
}

func TestApplyItemDonePrefixes(t *testing.T) {
	t.Parallel()
	var s progress.State
	const n = 5

	for i := 1; i <= n; i++ {
		var logged progress.Event
		line := fmt.Sprintf("Downloaded: Track%d", i)
		s, logged = progress.Apply(s, progress.Event{Kind: progress.KindItemDone, Line: line})
		require.Equal(t, fmt.Sprintf("%d. %s", i, line), logged.Line)
	}
	require.Equal(t, n, s.Completed)
	require.False(t, s.TotalKnown)
}

func TestApplyGenericUntouched(t *testing.T) {
	t.Parallel()
	s := progress.State{Completed: 2}
	next, logged := progress.Apply(s, progress.Event{Kind: progress.KindGeneric, Line: "hello"})
	require.Equal(t, s, next)
	require.Equal(t, "hello", logged.Line)
}

func TestApplyNeverExceedsTotal(t *testing.T) {
	t.Parallel()
	s := progress.State{Total: 1, TotalKnown: true}

	s, logged := progress.Apply(s, progress.Event{Kind: progress.KindItemDone, Line: "Downloaded: A"})
	require.Equal(t, "1. Downloaded: A", logged.Line)

	s, logged = progress.Apply(s, progress.Event{Kind: progress.KindItemDone, Line: "Downloaded: B"})
	require.Equal(t, 1, s.Completed)
	require.Equal(t, "Downloaded: B", logged.Line)
}

func TestApplyLateTotalClamped(t *testing.T) {
	t.Parallel()
	s := progress.State{Completed: 4}
	s, _ = progress.Apply(s, progress.Event{Kind: progress.KindTotalFound, Total: 2})
	require.Equal(t, 4, s.Total)
	require.True(t, s.Complete())
}

func TestStateComplete(t *testing.T) {
	t.Parallel()
	require.False(t, progress.State{}.Complete())
	require.False(t, progress.State{Total: 0, TotalKnown: true}.Complete())
	require.False(t, progress.State{Total: 3, TotalKnown: true, Completed: 2}.Complete())
	require.True(t, progress.State{Total: 3, TotalKnown: true, Completed: 3}.Complete())
}

func TestTrackerCompletesOnce(t *testing.T) {
	t.Parallel()
	tr := progress.NewTracker(nil, "/tmp/out.txt")

	lines := []string{
		"Found 3 songs",
		"Downloaded: TrackA",
		"Skipping: TrackB (exists)",
		"Downloaded: TrackC",
		"Downloaded: TrackC",
		"Skipping: TrackC",
	}

	var logged []string
	completions := 0
	for _, line := range lines {
		u := tr.Feed(line)
		logged = append(logged, u.Event.Line)
		if u.Completed {
			completions++
		}
	}

	require.Equal(t, 1, completions)
	require.Equal(t, []string{
		"Found 3 songs",
		"1. Downloaded: TrackA",
		"2. Skipping: TrackB (exists)",
		"3. Downloaded: TrackC",
		"Downloaded: TrackC",
		"Skipping: TrackC",
	}, logged)

	snap := tr.Snapshot()
	require.Equal(t, 3, snap.Completed)
	require.Equal(t, 3, snap.Total)
	require.True(t, snap.Done)
	require.Equal(t, "/tmp/out.txt", snap.LogPath)
}

func TestTrackerMalformedFoundKeepsGoing(t *testing.T) {
	t.Parallel()
	tr := progress.NewTracker(nil, "")

	u := tr.Feed("Found ?? songs")
	require.Equal(t, progress.KindGeneric, u.Event.Kind)
	require.False(t, u.State.TotalKnown)

	u = tr.Feed("Downloaded: A")
	require.Equal(t, 1, u.State.Completed)
	require.False(t, u.Completed)
}

type fixedClassifier struct{ kind progress.Kind }

func (f fixedClassifier) Classify(line string) progress.Event {
	return progress.Event{Kind: f.kind, Line: line}
}

func TestTrackerCustomClassifier(t *testing.T) {
	t.Parallel()
	tr := progress.NewTracker(fixedClassifier{kind: progress.KindItemDone}, "")
	tr.Feed("anything")
	tr.Feed("at all")
	require.Equal(t, 2, tr.Snapshot().Completed)
}
