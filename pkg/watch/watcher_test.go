package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewFileWatcher(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "sysmon.xml")
	if err := os.WriteFile(file, []byte("<Sysmon/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	watcher, err := NewFileWatcher([]string{file}, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	if watcher.debounce == nil {
		t.Error("watcher.debounce is nil")
	}
	_ = watcher.Stop()
}

func TestNewFileWatcher_NoFiles(t *testing.T) {
	if _, err := NewFileWatcher(nil, 0, nil); err == nil {
		t.Error("expected error for empty file list")
	}
}

func TestNewFileWatcher_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-dir", "sysmon.xml")
	if _, err := NewFileWatcher([]string{missing}, 0, nil); err == nil {
		t.Error("expected error for nonexistent parent directory")
	}
}

func TestFileWatcher_DetectsWrite(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "sysmon.xml")
	other := filepath.Join(tmpDir, "unrelated.txt")
	if err := os.WriteFile(file, []byte("<Sysmon/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	watcher, err := NewFileWatcher([]string{file}, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var changes atomic.Int32
	changed := make(chan string, 4)
	go func() {
		_ = watcher.Watch(ctx, func(path string) {
			changes.Add(1)
			changed <- path
		})
	}()

	// Give the watch loop a moment to start.
	time.Sleep(100 * time.Millisecond)

	// A write to an unwatched file in the same directory is ignored.
	if err := os.WriteFile(other, []byte("noise"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte(`<Sysmon schemaversion="4.50"/>`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-changed:
		if path != filepath.Clean(file) {
			t.Errorf("changed path = %q, want %q", path, file)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for change notification")
	}

	if err := watcher.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if n := changes.Load(); n < 1 {
		t.Errorf("change callbacks = %d, want at least 1", n)
	}
}

func TestDebouncer_Coalesces(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("callback ran %d times, want 1", n)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(120 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("callback ran %d times after Stop, want 0", n)
	}
}
