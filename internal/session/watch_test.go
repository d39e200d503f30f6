// ABOUTME: Tests for the session file watcher
// ABOUTME: Verifies notifications for writes and removal of the session file

package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func waitChange(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for %s notification", what)
	}
}

func TestWatch_NotifiesOnSetAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Watch(ctx, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := NewFileStore(path)
	if err := s.Set("tok"); err != nil {
		t.Fatal(err)
	}
	waitChange(t, ch, "set")

	// Drain anything coalesced from the write+rename
	time.Sleep(50 * time.Millisecond)
	select {
	case <-ch:
	default:
	}

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	waitChange(t, ch, "clear")
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := Watch(ctx, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			// a pending notification is allowed, the close must follow
			if _, ok := <-ch; ok {
				t.Error("expected channel to close after cancel")
			}
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
