package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesboard/internal/sales"
)

func TestDatasetWatcherInvalidatesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vendedores.csv")
	require.NoError(t, os.WriteFile(path, []byte(serviceCSV), 0644))

	logger := discardLogger()
	store := sales.NewStore(path, sales.NewLoader(sales.DefaultColumns(), logger), logger)

	ctx := context.Background()
	first, err := store.Get(ctx)
	require.NoError(t, err)

	changed := make(chan struct{}, 4)
	watcher := NewDatasetWatcher(store, logger, func() {
		changed <- struct{}{}
	})
	watcher.debounce = 20 * time.Millisecond

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- watcher.Run(watchCtx) }()

	// Give the watcher a moment to establish the directory watch.
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(serviceCSV+"Eva,Luna,East,10,1\n"), 0644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected change notification")
	}

	second, err := store.Get(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 4, second.Len())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestDatasetWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vendedores.csv")
	require.NoError(t, os.WriteFile(path, []byte(serviceCSV), 0644))

	logger := discardLogger()
	store := sales.NewStore(path, sales.NewLoader(sales.DefaultColumns(), logger), logger)

	changed := make(chan struct{}, 4)
	watcher := NewDatasetWatcher(store, logger, func() {
		changed <- struct{}{}
	})
	watcher.debounce = 20 * time.Millisecond

	watchCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = watcher.Run(watchCtx) }()
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	select {
	case <-changed:
		t.Fatal("unrelated file must not trigger a notification")
	case <-time.After(500 * time.Millisecond):
	}
}
