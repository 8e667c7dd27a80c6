package models

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// OrderKind is the execution type of an order. The simulation only places
// stop-limit brackets.
type OrderKind string

const (
	StopLimit OrderKind = "STOP_LIMIT"
)

// OrderStatus is the lifecycle state of a single order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderFilled    OrderStatus = "FILLED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Order is one leg of a bracket. A sell order always references its buy
// parent through ParentID; buy orders have ParentID == 0.
type Order struct {
	ID       int64       `json:"id"`
	Side     Side        `json:"side"`
	Price    float64     `json:"price"`
	Quantity float64     `json:"quantity"`
	Kind     OrderKind   `json:"kind"`
	Status   OrderStatus `json:"status"`
	ParentID int64       `json:"parent_id,omitempty"`
}

// LevelState is the lifecycle state of a grid level.
//
//	Unarmed -> BuyPending -> Holding -> SellPending -> BuyPending (re-arm)
//
// LevelClosed is terminal and entered only through the global halt.
type LevelState string

const (
	LevelUnarmed     LevelState = "UNARMED"      // created, no orders yet
	LevelBuyPending  LevelState = "BUY_PENDING"  // bracket submitted, buy leg live
	LevelHolding     LevelState = "HOLDING"      // buy filled, sell leg not yet live
	LevelSellPending LevelState = "SELL_PENDING" // sell leg live
	LevelClosed      LevelState = "CLOSED"       // halted, no further placement
)

// GridLevel is a fixed buy/sell price pair with a dedicated capital
// allocation. BuyPrice and SellPrice never change once the grid is built;
// re-armed brackets reuse the same prices.
type GridLevel struct {
	Index     int        `json:"index"`
	BuyPrice  float64    `json:"buy_price"`
	SellPrice float64    `json:"sell_price"`
	State     LevelState `json:"state"`

	// Current bracket legs. Replaced as a pair on every (re-)arm.
	BuyOrder  *Order `json:"buy_order,omitempty"`
	SellOrder *Order `json:"sell_order,omitempty"`
}
