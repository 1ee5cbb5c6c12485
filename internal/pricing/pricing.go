// Package pricing reduces raw market orders to one representative price
// per item.
package pricing

import (
	"fmt"
	"math"
	"sort"

	"github.com/relicscan/relic-data/internal/market"
)

// lowestCount is how many of the cheapest qualifying orders enter the mean.
const lowestCount = 5

// Outcome distinguishes the three aggregation results. NoSellers (orders
// exist, none in game) is deliberately distinct from NoData (no orders at
// all); callers render them differently.
type Outcome int

const (
	NoData Outcome = iota
	NoSellers
	Priced
)

// Price is the aggregation result for one item.
type Price struct {
	Outcome Outcome
	Mean    float64 // set only when Outcome == Priced
}

// String renders the price for display.
func (p Price) String() string {
	switch p.Outcome {
	case Priced:
		return fmt.Sprintf("%.1fp", p.Mean)
	case NoSellers:
		return "no ingame sellers"
	default:
		return "no data"
	}
}

// Aggregate reduces orders for one item to a representative price: the
// mean of the lowest five in-game sell prices, rounded to one decimal.
// Ties in price may swap which orders beyond the cutoff are excluded;
// the mean is unaffected.
func Aggregate(orders []market.Order) Price {
	if len(orders) == 0 {
		return Price{Outcome: NoData}
	}

	prices := make([]float64, 0, len(orders))
	for _, o := range orders {
		if o.OrderType == market.OrderSell && o.User.Status == market.StatusInGame {
			prices = append(prices, o.Platinum)
		}
	}
	if len(prices) == 0 {
		return Price{Outcome: NoSellers}
	}

	sort.Float64s(prices)
	if len(prices) > lowestCount {
		prices = prices[:lowestCount]
	}

	var sum float64
	for _, p := range prices {
		sum += p
	}
	mean := math.Round(sum/float64(len(prices))*10) / 10

	return Price{Outcome: Priced, Mean: mean}
}
