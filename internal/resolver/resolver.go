// Package resolver maps human-readable reward names to opaque market
// slugs, backed by a refreshable cache of the full catalog.
//
// Resolution order: exact match on the normalized name, then fuzzy match
// within an edit-distance budget, then a synthesized slug derived from
// the name itself. The synthesized fallback is never validated against
// the catalog and may legitimately 404 downstream; callers treat that as
// a normal outcome.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/relicscan/relic-data/internal/market"
	"github.com/relicscan/relic-data/internal/textmatch"
)

// Method records which resolution path produced a slug.
type Method int

const (
	MethodExact Method = iota
	MethodFuzzy
	MethodSynthesized
)

func (m Method) String() string {
	switch m {
	case MethodExact:
		return "exact"
	case MethodFuzzy:
		return "fuzzy"
	default:
		return "synthesized"
	}
}

// Config holds resolver settings.
type Config struct {
	// CachePath is where the slug map is persisted. Empty disables
	// persistence (the map then lives only in memory).
	CachePath string

	// MaxAge bounds how long a cached slug map is reused without a
	// network refresh.
	MaxAge time.Duration

	// MaxNameDistance is the exclusive fuzzy budget: a fuzzy match is
	// accepted only when its distance is strictly below this value.
	// Looser than the scanner's code budget; names are longer strings.
	MaxNameDistance int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxAge:          7 * 24 * time.Hour,
		MaxNameDistance: 3,
	}
}

// Catalog lists the full upstream catalog.
type Catalog interface {
	GetItems(ctx context.Context) ([]market.CatalogItem, error)
}

// Resolver resolves display names to catalog slugs. It is the sole
// writer of the persisted slug map.
type Resolver struct {
	cfg     Config
	catalog Catalog
	logger  *slog.Logger

	mu        sync.RWMutex
	slugs     map[string]string // normalized name -> slug
	keys      []string          // sorted keys, for deterministic fuzzy scans
	fetchedAt time.Time
}

// New creates a Resolver. Zero config fields fall back to defaults.
func New(cfg Config, catalog Catalog, logger *slog.Logger) *Resolver {
	def := DefaultConfig()
	if cfg.MaxAge == 0 {
		cfg.MaxAge = def.MaxAge
	}
	if cfg.MaxNameDistance == 0 {
		cfg.MaxNameDistance = def.MaxNameDistance
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		cfg:     cfg,
		catalog: catalog,
		logger:  logger,
	}
}

// Ensure makes a usable slug map available: the in-memory map if fresh,
// else the persisted copy if fresh, else a full refresh. A network
// failure during refresh is returned; an expired map is never silently
// reused.
func (r *Resolver) Ensure(ctx context.Context) error {
	r.mu.RLock()
	fresh := r.slugs != nil && time.Since(r.fetchedAt) < r.cfg.MaxAge
	r.mu.RUnlock()
	if fresh {
		return nil
	}

	if r.cfg.CachePath != "" {
		if slugs, fetchedAt, err := loadCacheFile(r.cfg.CachePath); err == nil {
			if time.Since(fetchedAt) < r.cfg.MaxAge {
				r.replace(slugs, fetchedAt)
				r.logger.Debug("slug map loaded from cache",
					"entries", len(slugs),
					"age", time.Since(fetchedAt),
				)
				return nil
			}
		}
	}

	return r.Refresh(ctx)
}

// Refresh refetches the full catalog and replaces the slug map wholesale.
// Old entries are never merged with new ones.
func (r *Resolver) Refresh(ctx context.Context) error {
	items, err := r.catalog.GetItems(ctx)
	if err != nil {
		return fmt.Errorf("refresh slug map: %w", err)
	}

	slugs := make(map[string]string, len(items))
	for _, it := range items {
		slugs[Normalize(it.ItemName)] = it.URLName
	}
	fetchedAt := time.Now()

	r.replace(slugs, fetchedAt)

	if r.cfg.CachePath != "" {
		if err := saveCacheFile(r.cfg.CachePath, slugs, fetchedAt); err != nil {
			// The in-memory map is valid; persistence is best effort.
			r.logger.Warn("failed to persist slug map", "err", err)
		}
	}

	r.logger.Info("slug map refreshed", "entries", len(slugs))
	return nil
}

// replace atomically installs a new map, superseding the old one.
func (r *Resolver) replace(slugs map[string]string, fetchedAt time.Time) {
	keys := make([]string, 0, len(slugs))
	for k := range slugs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r.mu.Lock()
	r.slugs = slugs
	r.keys = keys
	r.fetchedAt = fetchedAt
	r.mu.Unlock()
}

// Resolve maps a display name to a slug. It never fails: if neither the
// exact nor the fuzzy path hits, the slug is synthesized from the name.
func (r *Resolver) Resolve(name string) (string, Method) {
	norm := Normalize(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if slug, ok := r.slugs[norm]; ok {
		return slug, MethodExact
	}

	if m, ok := textmatch.Best(norm, r.keys, r.cfg.MaxNameDistance-1); ok {
		key := r.keys[m.Index]
		r.logger.Debug("fuzzy-resolved item name",
			"name", name,
			"matched", key,
			"distance", m.Distance,
		)
		return r.slugs[key], MethodFuzzy
	}

	return SynthesizeSlug(name), MethodSynthesized
}

// Len returns the number of entries in the current slug map.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slugs)
}
