package source

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func testCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	dir := t.TempDir()
	path := writeCatalog(t, dir, "catalog.yaml", `
statutes:
  - id: first
    effect: {type: grant, description: x}
`)
	catalog, err := NewCatalog(NewLoader(nil, nil), path, nil)
	if err != nil {
		t.Fatalf("NewCatalog() failed: %v", err)
	}
	return catalog, path
}

// TestCatalog_ReloadSwapsSet tests that a reload replaces the active set and
// a failed reload keeps it.
func TestCatalog_ReloadSwapsSet(t *testing.T) {
	catalog, path := testCatalog(t)
	if catalog.Current().Len() != 1 {
		t.Fatalf("initial Len() = %d, want 1", catalog.Current().Len())
	}

	held := catalog.Current()

	if err := os.WriteFile(path, []byte(`
statutes:
  - id: first
    effect: {type: grant, description: x}
  - id: second
    effect: {type: revoke, description: y}
`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := catalog.Reload(); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	if catalog.Current().Len() != 2 {
		t.Errorf("Len() after reload = %d, want 2", catalog.Current().Len())
	}

	// A set held across the reload stays consistent.
	if held.Len() != 1 {
		t.Errorf("held set mutated: Len() = %d", held.Len())
	}

	// An invalid catalog keeps the last good set active.
	if err := os.WriteFile(path, []byte("statutes: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := catalog.Reload(); err == nil {
		t.Fatal("Reload() succeeded on invalid catalog")
	}
	if catalog.Current().Len() != 2 {
		t.Errorf("Len() after failed reload = %d, want 2", catalog.Current().Len())
	}
}

// TestCatalog_StatuteLookup tests the resolver lookup adapter.
func TestCatalog_StatuteLookup(t *testing.T) {
	catalog, _ := testCatalog(t)

	if _, ok := catalog.Statute("first"); !ok {
		t.Error("Statute(first) not found")
	}
	if _, ok := catalog.Statute("absent"); ok {
		t.Error("Statute(absent) found")
	}
}

// TestWatcher_ReloadsOnChange tests that a file modification triggers a
// catalog reload through the watcher.
func TestWatcher_ReloadsOnChange(t *testing.T) {
	catalog, path := testCatalog(t)

	config := DefaultWatcherConfig()
	config.DebounceInterval = 50 * time.Millisecond

	watcher, err := NewWatcher(catalog, config, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = watcher.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = watcher.Watch(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte(`
statutes:
  - id: first
    effect: {type: grant, description: x}
  - id: second
    effect: {type: grant, description: y}
`), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for catalog.Current().Len() != 2 {
		select {
		case <-deadline:
			t.Fatalf("catalog not reloaded: Len() = %d", catalog.Current().Len())
		case <-time.After(20 * time.Millisecond):
		}
	}
}

// TestWatcher_DoubleStart tests that a second Watch call fails while the
// first runs.
func TestWatcher_DoubleStart(t *testing.T) {
	catalog, _ := testCatalog(t)

	watcher, err := NewWatcher(catalog, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = watcher.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = watcher.Watch(ctx) }()

	time.Sleep(50 * time.Millisecond)

	if err := watcher.Watch(ctx); err == nil {
		t.Error("second Watch() succeeded")
	}
}

// TestDebouncer_CoalescesTriggers tests that rapid triggers fire once.
func TestDebouncer_CoalescesTriggers(t *testing.T) {
	d := newDebouncer(100 * time.Millisecond)
	defer d.stop()

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.trigger(func() { calls.Add(1) })
		time.Sleep(20 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
}

// TestDebouncer_StopCancelsPending tests that stop suppresses a scheduled
// callback.
func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := newDebouncer(100 * time.Millisecond)

	var calls atomic.Int32
	d.trigger(func() { calls.Add(1) })
	d.stop()

	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("callback ran %d times after stop, want 0", got)
	}
}
