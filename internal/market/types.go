package market

// Order sides.
const (
	OrderSell = "sell"
	OrderBuy  = "buy"
)

// StatusInGame marks a seller currently in game, eligible for pricing.
const StatusInGame = "ingame"

// ItemsResponse from GET /items.
type ItemsResponse struct {
	Payload struct {
		Items []CatalogItem `json:"items"`
	} `json:"payload"`
}

// CatalogItem is one name/slug pair from the catalog.
type CatalogItem struct {
	ItemName string `json:"item_name"`
	URLName  string `json:"url_name"`
}

// OrdersResponse from GET /items/{slug}/orders.
type OrdersResponse struct {
	Payload struct {
		Orders []Order `json:"orders"`
	} `json:"payload"`
}

// Order is one open order. Orders are ephemeral: fetched, reduced to a
// price, then discarded.
type Order struct {
	OrderType string    `json:"order_type"` // "sell" or "buy"
	Platinum  float64   `json:"platinum"`   // unit price
	Quantity  int       `json:"quantity"`
	User      OrderUser `json:"user"`
}

// OrderUser is the order owner's presence state.
type OrderUser struct {
	Status string `json:"status"` // "ingame", "online" or "offline"
	Name   string `json:"ingame_name"`
}
