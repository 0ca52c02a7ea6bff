package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFiles_RerunsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("name: a\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 16)
	done := make(chan error, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() {
		done <- watchFiles(ctx, []string{path}, 10*time.Millisecond, logger, func() {
			calls <- struct{}{}
		})
	}()

	// The watcher starts asynchronously; keep saving until a run happens.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("name: b\n"), 0o644)
		select {
		case <-calls:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)

	// Drain runs triggered by the remaining saves.
	time.Sleep(100 * time.Millisecond)
	for len(calls) > 0 {
		<-calls
	}

	require.NoError(t, os.WriteFile(other, []byte("unrelated"), 0o644))
	select {
	case <-calls:
		t.Fatal("unrelated file triggered a run")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchFiles_MissingDirectory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := watchFiles(context.Background(), []string{"/does/not/exist/plan.yaml"}, time.Millisecond, logger, func() {})
	assert.ErrorContains(t, err, "failed to watch")
}

func TestWatchCommand_NothingToWatch(t *testing.T) {
	h := newHarness(t)
	err := h.run("watch")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "nothing to watch")
}

func TestWatchedPaths(t *testing.T) {
	plan := filepath.Join(t.TempDir(), "smoke.yaml")
	require.NoError(t, os.WriteFile(plan, []byte("name: smoke\n"), 0o644))

	assert.Empty(t, watchedPaths(&RootOptions{Plan: "dental"}))
	assert.Equal(t, []string{"cfg.yaml", plan}, watchedPaths(&RootOptions{ConfigPath: "cfg.yaml", Plan: plan}))
}
