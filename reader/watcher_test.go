package reader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherEmitsOnChange(t *testing.T) {
	dir := t.TempDir()
	watched := writeSMI(t, dir, "erg.smi", "variables:\n  u.\n")
	ignored := writeSMI(t, dir, "other.txt", "unrelated\n")

	w, err := NewWatcher([]string{watched}, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Changes to unwatched files in the same directory are filtered out.
	require.NoError(t, os.WriteFile(ignored, []byte("still unrelated\n"), 0644))
	require.NoError(t, os.WriteFile(watched, []byte("variables:\n  u.\n  i < u.\n"), 0644))

	select {
	case ev := <-w.Events():
		assert.Equal(t, []string{watched}, ev.Paths)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload event for watched file change")
	}
}

func TestWatcherCoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	a := writeSMI(t, dir, "a.smi", "variables:\n  u.\n")
	b := writeSMI(t, dir, "b.smi", "properties:\n  bool.\n")

	w, err := NewWatcher([]string{a, b}, 200*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.WriteFile(a, []byte("variables:\n  i.\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("properties:\n  tense.\n"), 0644))

	select {
	case ev := <-w.Events():
		assert.Equal(t, []string{a, b}, ev.Paths)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload event for burst of changes")
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	watched := writeSMI(t, dir, "erg.smi", "variables:\n  u.\n")

	w, err := NewWatcher([]string{watched}, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not stop on cancel")
	}

	// The event channel closes when the loop exits.
	_, open := <-w.Events()
	assert.False(t, open)
}

func TestWatcherRejectsMissingDirectory(t *testing.T) {
	_, err := NewWatcher([]string{filepath.Join(t.TempDir(), "gone", "x.smi")}, 0, nil)
	assert.Error(t, err)
}
