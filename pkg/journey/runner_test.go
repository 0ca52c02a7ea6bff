package journey

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/journey/pkg/journey/internal"
)

func newTestRunner(t *testing.T, open Opener, opts ...Option) *Runner {
	t.Helper()
	clock := internal.NewMockClock(time.Time{})
	clock.Step = 250 * time.Millisecond
	opts = append([]Option{WithClock(clock), WithRunID("test-run")}, opts...)
	r, err := NewRunner(open, opts...)
	require.NoError(t, err)
	return r
}

func TestNewRunner_NilOpener(t *testing.T) {
	_, err := NewRunner(nil)
	assert.Error(t, err)
}

func TestNewRunner_InvalidOptions(t *testing.T) {
	sess := newFakeSession()

	_, err := NewRunner(sess.opener(), WithClock(nil))
	assert.Error(t, err)

	_, err = NewRunner(sess.opener(), WithLogger(nil))
	assert.Error(t, err)

	_, err = NewRunner(sess.opener(), WithRunID(""))
	assert.Error(t, err)
}

func TestRunner_GeneratesRunID(t *testing.T) {
	sess := newFakeSession()
	r, err := NewRunner(sess.opener())
	require.NoError(t, err)

	log, err := r.Run(context.Background(), []Step{passStep("A", "ok")})
	require.NoError(t, err)
	assert.Len(t, log.RunID(), 36)
}

func TestRunner_OneEntryPerStepInOrder(t *testing.T) {
	sess := newFakeSession()
	r := newTestRunner(t, sess.opener())

	steps := []Step{
		passStep("first", "1"),
		failStep("second", "2"),
		passStep("third", "3"),
		failStep("fourth", "4"),
	}

	log, err := r.Run(context.Background(), steps)
	require.NoError(t, err)
	require.Equal(t, len(steps), log.Len())

	for i, e := range log.Entries() {
		assert.Equal(t, i+1, e.Index)
		assert.Equal(t, steps[i].Name, e.Name)
	}
	assert.Equal(t, "test-run", log.RunID())
}

func TestRunner_FaultingStepDoesNotAbortRun(t *testing.T) {
	sess := newFakeSession()
	r := newTestRunner(t, sess.opener())

	log, err := r.Run(context.Background(), []Step{
		panicStep("explodes"),
		passStep("after", "still running"),
	})
	require.NoError(t, err)

	entries := log.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, "explodes", entries[0].Name)
	assert.False(t, entries[0].Passed)
	assert.Equal(t, FailFault, entries[0].Kind)
	assert.Contains(t, entries[0].Message, "driver exploded")

	assert.Equal(t, "after", entries[1].Name)
	assert.True(t, entries[1].Passed)
	assert.Equal(t, "still running", entries[1].Message)
}

func TestRunner_ReleasesSessionExactlyOnce(t *testing.T) {
	tests := []struct {
		name  string
		steps []Step
	}{
		{"all pass", []Step{passStep("a", ""), passStep("b", "")}},
		{"all fail", []Step{failStep("a", "x"), failStep("b", "y")}},
		{"panics", []Step{panicStep("a"), panicStep("b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newFakeSession()
			r := newTestRunner(t, sess.opener())

			_, err := r.Run(context.Background(), tt.steps)
			require.NoError(t, err)
			assert.Equal(t, 1, sess.closes)
		})
	}
}

func TestRunner_OpenFailureIsFatal(t *testing.T) {
	calls := 0
	open := func(context.Context) (Session, error) { return nil, errors.New("chrome not found") }
	r := newTestRunner(t, open)

	log, err := r.Run(context.Background(), []Step{{
		Name: "never",
		Run: func(context.Context, Session) Outcome {
			calls++
			return Pass("")
		},
	}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome not found")
	assert.Nil(t, log)
	assert.Zero(t, calls)
}

func TestRunner_NoSteps(t *testing.T) {
	opened := false
	open := func(context.Context) (Session, error) {
		opened = true
		return newFakeSession(), nil
	}
	r := newTestRunner(t, open)

	log, err := r.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSteps)
	assert.Nil(t, log)
	assert.False(t, opened)
}

func TestRunner_PassFailPassScenario(t *testing.T) {
	sess := newFakeSession()
	r := newTestRunner(t, sess.opener())

	log, err := r.Run(context.Background(), []Step{
		passStep("A", "ok"),
		failStep("B", "boom"),
		passStep("C", "done"),
	})
	require.NoError(t, err)

	type row struct {
		name    string
		passed  bool
		message string
	}
	var got []row
	for _, e := range log.Entries() {
		got = append(got, row{e.Name, e.Passed, e.Message})
	}
	assert.Equal(t, []row{
		{"A", true, "ok"},
		{"B", false, "boom"},
		{"C", true, "done"},
	}, got)

	sum := Summarize(log)
	assert.False(t, sum.AllPassed)
	assert.NotEqual(t, sum.Total, sum.Passed)
}

func TestRunner_InterruptStopsBeforeNextStep(t *testing.T) {
	sess := newFakeSession()
	r := newTestRunner(t, sess.opener())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	secondRan := false
	log, err := r.Run(ctx, []Step{
		{Name: "interrupts", Run: func(context.Context, Session) Outcome {
			cancel()
			return Pass("cancelled the run")
		}},
		{Name: "skipped", Run: func(context.Context, Session) Outcome {
			secondRan = true
			return Pass("")
		}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, log)
	assert.Equal(t, 1, log.Len())
	assert.False(t, secondRan)
	assert.Equal(t, 1, sess.closes)
}

func TestRunner_ReleaseErrorReturnedWithLog(t *testing.T) {
	sess := newFakeSession()
	sess.closeErr = errors.New("browser already gone")
	r := newTestRunner(t, sess.opener())

	log, err := r.Run(context.Background(), []Step{passStep("A", "ok")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "release session")
	require.NotNil(t, log)
	assert.Equal(t, 1, log.Len())
	assert.Equal(t, 1, sess.closes)
}

func TestRunner_OnEntryAndTimestamps(t *testing.T) {
	sess := newFakeSession()
	var seen []Entry
	r := newTestRunner(t, sess.opener(), WithOnEntry(func(e Entry) { seen = append(seen, e) }))

	log, err := r.Run(context.Background(), []Step{passStep("A", "ok"), failStep("B", "no")})
	require.NoError(t, err)

	assert.Equal(t, log.Entries(), seen)
	require.Len(t, seen, 2)
	start := time.Date(2024, 12, 25, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, start, seen[0].Time)
	assert.Equal(t, 250*time.Millisecond, seen[0].Duration)
	assert.Equal(t, start.Add(500*time.Millisecond), seen[1].Time)
}

func TestRunner_StepWithoutProcedure(t *testing.T) {
	sess := newFakeSession()
	r := newTestRunner(t, sess.opener())

	log, err := r.Run(context.Background(), []Step{{Name: "empty"}})
	require.NoError(t, err)
	e := log.Entries()[0]
	assert.False(t, e.Passed)
	assert.Equal(t, FailFault, e.Kind)
}

func TestRunner_UnclassifiedFailureBecomesFault(t *testing.T) {
	sess := newFakeSession()
	r := newTestRunner(t, sess.opener())

	log, err := r.Run(context.Background(), []Step{{
		Name: "bare",
		Run:  func(context.Context, Session) Outcome { return Outcome{Message: "nope"} },
	}})
	require.NoError(t, err)
	assert.Equal(t, FailFault, log.Entries()[0].Kind)
}

func TestLog_EntriesIsACopy(t *testing.T) {
	sess := newFakeSession()
	r := newTestRunner(t, sess.opener())

	log, err := r.Run(context.Background(), []Step{passStep("A", "ok")})
	require.NoError(t, err)

	entries := log.Entries()
	entries[0].Name = "tampered"
	entries[0].Passed = false

	assert.Equal(t, "A", log.Entries()[0].Name)
	assert.True(t, log.Entries()[0].Passed)
}

func TestLog_NilSafe(t *testing.T) {
	var log *Log
	assert.Zero(t, log.Len())
	assert.Empty(t, log.RunID())
	assert.Nil(t, log.Entries())
}
