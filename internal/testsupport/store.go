package testsupport

import (
	"context"
	"testing"

	"timegraph/internal/config"
	"timegraph/internal/graphstore"
	"timegraph/internal/transcript"
)

// MustOpenStore opens a graphstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *graphstore.Store {
	t.Helper()

	store, err := graphstore.Open(cfg)
	if err != nil {
		t.Fatalf("graphstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustSave stores graphs and fails the test on error.
func MustSave(t testing.TB, store *graphstore.Store, graphs ...*transcript.Graph) {
	t.Helper()

	if err := store.Save(context.Background(), "test", "", graphs...); err != nil {
		t.Fatalf("store.Save: %v", err)
	}
}
