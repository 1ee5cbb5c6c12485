package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/relicscan/relic-data/internal/market"
)

// fakeCatalog counts calls and serves a fixed item list.
type fakeCatalog struct {
	items []market.CatalogItem
	err   error
	calls int
}

func (f *fakeCatalog) GetItems(ctx context.Context) ([]market.CatalogItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{items: []market.CatalogItem{
		{ItemName: "Forma Blueprint", URLName: "forma_blueprint"},
		{ItemName: "Akbronco Prime Link", URLName: "akbronco_prime_link"},
		{ItemName: "Ballistica Prime Receiver", URLName: "ballistica_prime_receiver"},
	}}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestNormalize tests name normalization.
func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Forma Blueprint", "forma blueprint"},
		{"  Akbronco   Prime-Link!  ", "akbronco prime link"},
		{"ALREADY normal", "already normal"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestSynthesizeSlug tests the derived-slug fallback.
func TestSynthesizeSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Akbronco Prime Link", "akbronco_prime_link"},
		{"Orokin Catalyst Blueprint", "orokin_catalyst"},
		{"Odd-Name (Variant)", "oddname_variant"},
	}
	for _, tt := range tests {
		if got := SynthesizeSlug(tt.in); got != tt.want {
			t.Errorf("SynthesizeSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestResolve tests resolution order and thresholds.
func TestResolve(t *testing.T) {
	cat := testCatalog()
	r := New(Config{}, cat, discard())
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	t.Run("exact path wins", func(t *testing.T) {
		slug, method := r.Resolve("Forma Blueprint")
		if slug != "forma_blueprint" || method != MethodExact {
			t.Errorf("Resolve = (%q, %v), want exact forma_blueprint", slug, method)
		}
	})

	t.Run("fuzzy within budget", func(t *testing.T) {
		// One substitution; the budget accepts distance < 3.
		slug, method := r.Resolve("Forma Bluepront")
		if slug != "forma_blueprint" || method != MethodFuzzy {
			t.Errorf("Resolve = (%q, %v), want fuzzy forma_blueprint", slug, method)
		}
	})

	t.Run("too far falls back to synthesis", func(t *testing.T) {
		slug, method := r.Resolve("Completely Unknown Part")
		if method != MethodSynthesized {
			t.Errorf("method = %v, want synthesized", method)
		}
		if slug != "completely_unknown_part" {
			t.Errorf("slug = %q", slug)
		}
	})

	t.Run("empty map still synthesizes", func(t *testing.T) {
		empty := New(Config{}, &fakeCatalog{}, discard())
		slug, method := empty.Resolve("Akbronco Prime Link")
		if method != MethodSynthesized || slug != "akbronco_prime_link" {
			t.Errorf("Resolve = (%q, %v)", slug, method)
		}
	})
}

// TestEnsure tests the cache lifecycle.
func TestEnsure(t *testing.T) {
	t.Run("fresh memory map skips network", func(t *testing.T) {
		cat := testCatalog()
		r := New(Config{MaxAge: time.Hour}, cat, discard())

		if err := r.Ensure(context.Background()); err != nil {
			t.Fatal(err)
		}
		if err := r.Ensure(context.Background()); err != nil {
			t.Fatal(err)
		}
		if cat.calls != 1 {
			t.Errorf("catalog calls = %d, want 1", cat.calls)
		}
	})

	t.Run("persisted map survives a new resolver", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "slugs.json")

		first := New(Config{CachePath: path, MaxAge: time.Hour}, testCatalog(), discard())
		if err := first.Ensure(context.Background()); err != nil {
			t.Fatal(err)
		}

		cat := testCatalog()
		second := New(Config{CachePath: path, MaxAge: time.Hour}, cat, discard())
		if err := second.Ensure(context.Background()); err != nil {
			t.Fatal(err)
		}
		if cat.calls != 0 {
			t.Errorf("catalog calls = %d, want 0 (served from disk)", cat.calls)
		}

		slug, method := second.Resolve("Akbronco Prime Link")
		if slug != "akbronco_prime_link" || method != MethodExact {
			t.Errorf("Resolve = (%q, %v)", slug, method)
		}
	})

	t.Run("expired cache triggers refetch", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "slugs.json")
		stale := map[string]string{"old entry": "old_slug"}
		if err := saveCacheFile(path, stale, time.Now().Add(-2*time.Hour)); err != nil {
			t.Fatal(err)
		}

		cat := testCatalog()
		r := New(Config{CachePath: path, MaxAge: time.Hour}, cat, discard())
		if err := r.Ensure(context.Background()); err != nil {
			t.Fatal(err)
		}
		if cat.calls != 1 {
			t.Errorf("catalog calls = %d, want 1", cat.calls)
		}

		// Replacement is wholesale: stale entries are gone.
		if _, method := r.Resolve("old entry"); method == MethodExact {
			t.Error("stale entry survived refresh")
		}
	})

	t.Run("refresh failure surfaces", func(t *testing.T) {
		boom := errors.New("network down")
		r := New(Config{MaxAge: time.Hour}, &fakeCatalog{err: boom}, discard())

		if err := r.Ensure(context.Background()); !errors.Is(err, boom) {
			t.Errorf("Ensure error = %v, want wrapped network error", err)
		}
	})
}
