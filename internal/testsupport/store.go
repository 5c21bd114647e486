package testsupport

import (
	"context"
	"testing"

	"maqamat/internal/config"
	"maqamat/internal/pagecache"
)

// MustOpenCache opens the page cache configured by cfg and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *pagecache.Store {
	t.Helper()

	store, err := pagecache.Open(cfg.CacheDBPath())
	if err != nil {
		t.Fatalf("pagecache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// PutPage seeds the cache with body for url.
func PutPage(t testing.TB, store *pagecache.Store, url, body string) {
	t.Helper()

	if _, _, err := store.Put(context.Background(), url, []byte(body)); err != nil {
		t.Fatalf("store.Put: %v", err)
	}
}
