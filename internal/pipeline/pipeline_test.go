package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/relicscan/relic-data/internal/dataset"
	"github.com/relicscan/relic-data/internal/market"
	"github.com/relicscan/relic-data/internal/resolver"
	"github.com/relicscan/relic-data/internal/scanner"
)

type fakeSlugs struct {
	ensureErr    error
	resolveCalls int
}

func (f *fakeSlugs) Ensure(ctx context.Context) error { return f.ensureErr }

func (f *fakeSlugs) Resolve(name string) (string, resolver.Method) {
	f.resolveCalls++
	return resolver.SynthesizeSlug(name), resolver.MethodExact
}

type fakeOrders struct {
	mu     sync.Mutex
	orders map[string][]market.Order
	errs   map[string]error
	calls  map[string]int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		orders: make(map[string][]market.Order),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeOrders) GetOrders(ctx context.Context, slug string) ([]market.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[slug]++
	if err := f.errs[slug]; err != nil {
		return nil, err
	}
	return f.orders[slug], nil
}

func sellOrder(platinum float64) market.Order {
	return market.Order{
		OrderType: market.OrderSell,
		Platinum:  platinum,
		User:      market.OrderUser{Status: market.StatusInGame},
	}
}

func testDataset() *dataset.Dataset {
	return dataset.New([]dataset.Record{
		{
			Name: "Neo A10",
			Rewards: []dataset.Reward{
				{Item: dataset.Item{Name: "Akbronco Prime Link"}},
				{Item: dataset.Item{Name: "Forma Blueprint"}},
				{Item: dataset.Item{Name: "Burston Prime Stock"}, MarketSlug: "burston_prime_stock"},
			},
		},
		{
			Name: "Lith B3",
			Rewards: []dataset.Reward{
				{Item: dataset.Item{Name: "Akbronco Prime Link"}},
			},
		},
	})
}

func testPipeline(slugs *fakeSlugs, orders *fakeOrders, opts ...Option) *Pipeline {
	sc := scanner.New(scanner.DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return New(sc, testDataset(), slugs, orders, opts...)
}

func TestScanText(t *testing.T) {
	slugs := &fakeSlugs{}
	orders := newFakeOrders()
	orders.orders["akbronco_prime_link"] = []market.Order{sellOrder(10), sellOrder(12)}
	orders.orders["burston_prime_stock"] = []market.Order{sellOrder(5)}

	p := testPipeline(slugs, orders)

	report, err := p.ScanText(context.Background(), "Neo A10 junk Lith B3", scanner.ModeOpen)
	if err != nil {
		t.Fatalf("ScanText error: %v", err)
	}

	if len(report.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(report.Sections))
	}

	neo := report.Sections[0]
	if neo.Slot.Code.String() != "Neo A10" {
		t.Errorf("section 0 code = %s", neo.Slot.Code)
	}
	// Forma Blueprint is untradable and never appears.
	if len(neo.Rewards) != 2 {
		t.Fatalf("neo rewards = %d, want 2 (forma filtered)", len(neo.Rewards))
	}
	for _, row := range neo.Rewards {
		if strings.Contains(strings.ToLower(row.Name), "forma") {
			t.Errorf("forma blueprint leaked into report: %+v", row)
		}
		if row.Err != nil {
			t.Errorf("row %s error: %v", row.Name, row.Err)
		}
	}

	if got := neo.Rewards[0].Price.String(); got != "11.0p" {
		t.Errorf("akbronco price = %s, want 11.0p", got)
	}
}

func TestSharedSlugFetchedOnce(t *testing.T) {
	slugs := &fakeSlugs{}
	orders := newFakeOrders()
	orders.orders["akbronco_prime_link"] = []market.Order{sellOrder(10)}
	orders.orders["burston_prime_stock"] = []market.Order{sellOrder(5)}

	p := testPipeline(slugs, orders)

	// Akbronco Prime Link drops from both relics; one fetch serves both rows.
	_, err := p.ScanText(context.Background(), "Neo A10 Lith B3", scanner.ModeOpen)
	if err != nil {
		t.Fatal(err)
	}
	if got := orders.calls["akbronco_prime_link"]; got != 1 {
		t.Errorf("fetches for shared slug = %d, want 1", got)
	}
}

func TestPreBoundSlugSkipsResolver(t *testing.T) {
	slugs := &fakeSlugs{}
	orders := newFakeOrders()

	p := testPipeline(slugs, orders)

	report, err := p.ScanText(context.Background(), "Neo A10", scanner.ModeOpen)
	if err != nil {
		t.Fatal(err)
	}

	var bound *RewardRow
	for i := range report.Sections[0].Rewards {
		if report.Sections[0].Rewards[i].Name == "Burston Prime Stock" {
			bound = &report.Sections[0].Rewards[i]
		}
	}
	if bound == nil {
		t.Fatal("bound reward missing from report")
	}
	if bound.Slug != "burston_prime_stock" || bound.Method != "bound" {
		t.Errorf("bound row = %+v", bound)
	}
	// Only the unbound reward went through the resolver.
	if slugs.resolveCalls != 1 {
		t.Errorf("resolver calls = %d, want 1", slugs.resolveCalls)
	}
}

func TestPerItemDegradation(t *testing.T) {
	slugs := &fakeSlugs{}
	orders := newFakeOrders()
	orders.orders["akbronco_prime_link"] = []market.Order{sellOrder(10)}
	orders.errs["burston_prime_stock"] = &market.APIError{StatusCode: http.StatusNotFound, Message: "Not Found"}

	p := testPipeline(slugs, orders)

	report, err := p.ScanText(context.Background(), "Neo A10", scanner.ModeOpen)
	if err != nil {
		t.Fatalf("one failing item must not fail the scan: %v", err)
	}

	for _, row := range report.Sections[0].Rewards {
		switch row.Name {
		case "Burston Prime Stock":
			var scanErr *Error
			if !errors.As(row.Err, &scanErr) || scanErr.Kind != KindPermanent {
				t.Errorf("burston err = %v, want KindPermanent", row.Err)
			}
		default:
			if row.Err != nil {
				t.Errorf("row %s unexpectedly failed: %v", row.Name, row.Err)
			}
		}
	}
}

func TestTransientClassification(t *testing.T) {
	slugs := &fakeSlugs{}
	orders := newFakeOrders()
	orders.errs["akbronco_prime_link"] = &market.APIError{StatusCode: http.StatusTooManyRequests, Message: "slow down"}
	orders.errs["burston_prime_stock"] = errors.New("connection reset")

	p := testPipeline(slugs, orders)

	report, err := p.ScanText(context.Background(), "Neo A10", scanner.ModeOpen)
	if err != nil {
		t.Fatal(err)
	}

	for _, row := range report.Sections[0].Rewards {
		var scanErr *Error
		if !errors.As(row.Err, &scanErr) {
			t.Fatalf("row %s err = %v, want *Error", row.Name, row.Err)
		}
		if scanErr.Kind != KindTransient {
			t.Errorf("row %s kind = %s, want transient", row.Name, scanErr.Kind)
		}
	}
}

func TestCollaboratorFailureAborts(t *testing.T) {
	slugs := &fakeSlugs{ensureErr: errors.New("catalog unreachable")}
	orders := newFakeOrders()

	p := testPipeline(slugs, orders)

	_, err := p.ScanText(context.Background(), "Neo A10", scanner.ModeOpen)
	var scanErr *Error
	if !errors.As(err, &scanErr) || scanErr.Kind != KindCollaborator {
		t.Fatalf("err = %v, want KindCollaborator", err)
	}
	// The scan stopped before any fetch.
	if len(orders.calls) != 0 {
		t.Errorf("orders fetched despite collaborator failure: %v", orders.calls)
	}
}

func TestNoCodesIsInputError(t *testing.T) {
	p := testPipeline(&fakeSlugs{}, newFakeOrders())

	_, err := p.ScanText(context.Background(), "nothing relic-like here", scanner.ModeOpen)
	var scanErr *Error
	if !errors.As(err, &scanErr) || scanErr.Kind != KindInput {
		t.Fatalf("err = %v, want KindInput", err)
	}
}

func TestUnknownCodeDegradesSection(t *testing.T) {
	slugs := &fakeSlugs{}
	orders := newFakeOrders()
	orders.orders["akbronco_prime_link"] = []market.Order{sellOrder(10)}
	orders.orders["burston_prime_stock"] = []market.Order{sellOrder(5)}

	p := testPipeline(slugs, orders)

	// Axi Z99 is a valid code with no dataset record.
	report, err := p.ScanText(context.Background(), "Neo A10 Axi Z99", scanner.ModeOpen)
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(report.Sections))
	}
	var scanErr *Error
	if !errors.As(report.Sections[1].Err, &scanErr) || scanErr.Kind != KindResolution {
		t.Errorf("section err = %v, want KindResolution", report.Sections[1].Err)
	}
	if report.Sections[0].Err != nil {
		t.Errorf("known section degraded too: %v", report.Sections[0].Err)
	}
}

func TestFissureModePadsReport(t *testing.T) {
	slugs := &fakeSlugs{}
	orders := newFakeOrders()
	orders.orders["akbronco_prime_link"] = []market.Order{sellOrder(10)}
	orders.orders["burston_prime_stock"] = []market.Order{sellOrder(5)}

	p := testPipeline(slugs, orders)

	report, err := p.ScanText(context.Background(), "Neo A10", scanner.ModeFissure)
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Sections) != 4 {
		t.Fatalf("sections = %d, want 4 in fissure mode", len(report.Sections))
	}
	if !report.Sections[0].Slot.OK {
		t.Error("slot 1 should hold the recovered code")
	}
	for i := 1; i < 4; i++ {
		if report.Sections[i].Slot.OK {
			t.Errorf("slot %d should be empty", i+1)
		}
	}

	out := report.String()
	if !strings.Contains(out, "Slot 1: Neo A10") || !strings.Contains(out, "Slot 4: empty") {
		t.Errorf("rendering missing slots:\n%s", out)
	}
}

type fakeEngine struct {
	text string
	err  error
}

func (f *fakeEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	return f.text, f.err
}

func TestScanImage(t *testing.T) {
	slugs := &fakeSlugs{}
	orders := newFakeOrders()
	orders.orders["akbronco_prime_link"] = []market.Order{sellOrder(10)}
	orders.orders["burston_prime_stock"] = []market.Order{sellOrder(5)}

	t.Run("recognized text flows through", func(t *testing.T) {
		p := testPipeline(slugs, orders, WithOCR(&fakeEngine{text: "Neo A10"}))
		report, err := p.ScanImage(context.Background(), []byte("png"), scanner.ModeOpen)
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Sections) != 1 {
			t.Errorf("sections = %d, want 1", len(report.Sections))
		}
	})

	t.Run("engine failure is collaborator error", func(t *testing.T) {
		p := testPipeline(slugs, orders, WithOCR(&fakeEngine{err: errors.New("sidecar down")}))
		_, err := p.ScanImage(context.Background(), []byte("png"), scanner.ModeOpen)
		var scanErr *Error
		if !errors.As(err, &scanErr) || scanErr.Kind != KindCollaborator {
			t.Fatalf("err = %v, want KindCollaborator", err)
		}
	})

	t.Run("no engine configured", func(t *testing.T) {
		p := testPipeline(slugs, orders)
		if _, err := p.ScanImage(context.Background(), []byte("png"), scanner.ModeOpen); err == nil {
			t.Fatal("want error without an engine")
		}
	})
}
