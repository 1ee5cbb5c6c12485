// Package pipeline wires the scan stages end to end: code recovery,
// dataset lookup, slug resolution, throttled order fetching, and price
// aggregation, producing one report per scan.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/relicscan/relic-data/internal/dataset"
	"github.com/relicscan/relic-data/internal/market"
	"github.com/relicscan/relic-data/internal/ocr"
	"github.com/relicscan/relic-data/internal/pricing"
	"github.com/relicscan/relic-data/internal/resolver"
	"github.com/relicscan/relic-data/internal/scanner"
	"github.com/relicscan/relic-data/internal/scheduler"
)

// DefaultConcurrency bounds parallel order fetches per scan.
const DefaultConcurrency = 4

// untradableMarker flags rewards that have no market listing.
const untradableMarker = "forma blueprint"

// Slugs resolves reward names to catalog slugs.
type Slugs interface {
	Ensure(ctx context.Context) error
	Resolve(name string) (string, resolver.Method)
}

// Orders fetches the current order book for one slug. Both the direct
// market client and the proxy client satisfy it.
type Orders interface {
	GetOrders(ctx context.Context, slug string) ([]market.Order, error)
}

// Pipeline runs scans. Safe for concurrent use.
type Pipeline struct {
	scanner *scanner.Scanner
	dataset *dataset.Dataset
	slugs   Slugs
	orders  Orders

	engine      ocr.Engine
	concurrency int
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOCR attaches an OCR engine, enabling ScanImage.
func WithOCR(e ocr.Engine) Option {
	return func(p *Pipeline) { p.engine = e }
}

// WithConcurrency bounds parallel order fetches.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) { p.concurrency = n }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New creates a Pipeline over its collaborators.
func New(sc *scanner.Scanner, ds *dataset.Dataset, slugs Slugs, orders Orders, opts ...Option) *Pipeline {
	p := &Pipeline{
		scanner:     sc,
		dataset:     ds,
		slugs:       slugs,
		orders:      orders,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ScanImage recognizes text from an image via the attached OCR engine
// and scans it. Engine failures abort the scan.
func (p *Pipeline) ScanImage(ctx context.Context, image []byte, mode scanner.Mode) (*Report, error) {
	if p.engine == nil {
		return nil, &Error{Kind: KindCollaborator, Err: errors.New("no ocr engine configured")}
	}

	text, err := p.engine.Recognize(ctx, image)
	if err != nil {
		return nil, &Error{Kind: KindCollaborator, Err: err}
	}
	return p.ScanText(ctx, text, mode)
}

// ScanText runs the full scan over already-recognized text. Required
// collaborators failing abort before any fetch; a single reward failing
// to price degrades only its own row.
func (p *Pipeline) ScanText(ctx context.Context, text string, mode scanner.Mode) (*Report, error) {
	codes := p.scanner.Recover(text)
	if len(codes) == 0 {
		return nil, &Error{Kind: KindInput, Err: errors.New("no relic codes recognized")}
	}

	if err := p.slugs.Ensure(ctx); err != nil {
		return nil, &Error{Kind: KindCollaborator, Err: err}
	}

	report := &Report{Mode: mode}

	// One row per reward, rows for the same slug share one fetch.
	rowsBySlug := make(map[string][]*RewardRow)

	for _, slot := range p.scanner.Group(codes, mode) {
		section := Section{Slot: slot}
		if !slot.OK {
			report.Sections = append(report.Sections, section)
			continue
		}

		rec, ok := p.dataset.Find(slot.Code)
		if !ok {
			section.Err = &Error{
				Kind: KindResolution,
				Item: slot.Code.String(),
				Err:  errors.New("no dataset record"),
			}
			report.Sections = append(report.Sections, section)
			continue
		}

		for _, reward := range rec.Rewards {
			if strings.Contains(strings.ToLower(reward.Item.Name), untradableMarker) {
				continue
			}

			row := RewardRow{Name: reward.Item.Name}
			if reward.MarketSlug != "" {
				row.Slug = reward.MarketSlug
				row.Method = "bound"
			} else {
				slug, method := p.slugs.Resolve(reward.Item.Name)
				row.Slug = slug
				row.Method = method.String()
			}
			section.Rewards = append(section.Rewards, row)
		}
		report.Sections = append(report.Sections, section)

		rows := report.Sections[len(report.Sections)-1].Rewards
		for i := range rows {
			rowsBySlug[rows[i].Slug] = append(rowsBySlug[rows[i].Slug], &rows[i])
		}
	}

	p.fetchPrices(ctx, rowsBySlug)
	return report, nil
}

// fetchPrices prices every distinct slug with bounded concurrency and
// writes the outcome back into each row referencing it.
func (p *Pipeline) fetchPrices(ctx context.Context, rowsBySlug map[string][]*RewardRow) {
	slugs := make([]string, 0, len(rowsBySlug))
	tasks := make([]scheduler.Task[pricing.Price], 0, len(rowsBySlug))
	for slug := range rowsBySlug {
		slug := slug
		slugs = append(slugs, slug)
		tasks = append(tasks, func(ctx context.Context) (pricing.Price, error) {
			orders, err := p.orders.GetOrders(ctx, slug)
			if err != nil {
				return pricing.Price{}, err
			}
			return pricing.Aggregate(orders), nil
		})
	}

	results := scheduler.Concurrent(ctx, tasks, p.concurrency)

	for i, res := range results {
		rows := rowsBySlug[slugs[i]]
		if res.Err != nil {
			scoped := &Error{Kind: classifyFetch(res.Err), Item: slugs[i], Err: res.Err}
			p.logger.Warn("order fetch failed",
				"slug", slugs[i],
				"kind", scoped.Kind.String(),
				"err", res.Err,
			)
			for _, row := range rows {
				row.Err = scoped
			}
			continue
		}
		for _, row := range rows {
			row.Price = res.Value
		}
	}
}
