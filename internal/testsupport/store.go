package testsupport

import (
	"context"
	"testing"

	"clipforge/internal/config"
	"clipforge/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewVOD creates a new queue item for tests using the provided store.
func NewVOD(t testing.TB, store *queue.Store, vodURL, title string) *queue.Item {
	t.Helper()

	item, err := store.NewVOD(context.Background(), vodURL, title, "teststreamer")
	if err != nil {
		t.Fatalf("store.NewVOD: %v", err)
	}
	return item
}
