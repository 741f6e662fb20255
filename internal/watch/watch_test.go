package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFollowReportsSettledContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte(`0`), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- Follow(ctx, path, Config{Debounce: 50 * time.Millisecond}, func(data []byte) error {
			got <- string(data)
			return nil
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	for _, v := range []string{`1`, `2`, `3`} {
		if err := os.WriteFile(path, []byte(v), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case s := <-got:
		if s != `3` {
			t.Errorf("first report = %q, want 3", s)
		}
	case <-ctx.Done():
		t.Fatal("no change reported")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Follow() error = %v", err)
	}
}

func TestFollowStopsOnHandlerError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte(`0`), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errStop := errors.New("stop")
	done := make(chan error, 1)
	go func() {
		done <- Follow(ctx, path, Config{Debounce: 20 * time.Millisecond}, func([]byte) error {
			return errStop
		})
	}()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`1`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, errStop) {
			t.Errorf("Follow() error = %v, want errStop", err)
		}
	case <-ctx.Done():
		t.Fatal("Follow did not stop")
	}
}

func TestFollowMissingFile(t *testing.T) {
	err := Follow(context.Background(), filepath.Join(t.TempDir(), "missing"), Config{}, func([]byte) error {
		return nil
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Follow() error = %v, want ErrNotExist", err)
	}
}
