package market

import "time"

// PriceBar is one OHLCV candle. Series are ordered ascending by timestamp and
// are never mutated after fetch.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	Value     float64   `json:"value"` // accumulated trade value in quote currency
}

// BalanceSnapshot is one currency line of the account at cycle start.
type BalanceSnapshot struct {
	Currency    string  `json:"currency"`
	Free        float64 `json:"balance"`
	Locked      float64 `json:"locked"`
	AvgBuyPrice float64 `json:"avg_buy_price"`
}

// OrderBookLevel is one depth level of the order book.
type OrderBookLevel struct {
	AskPrice float64 `json:"ask_price"`
	BidPrice float64 `json:"bid_price"`
	AskSize  float64 `json:"ask_size"`
	BidSize  float64 `json:"bid_size"`
}

// OrderBookSnapshot is a single-use view of the book for one cycle.
type OrderBookSnapshot struct {
	Pair         string           `json:"market"`
	Timestamp    time.Time        `json:"timestamp"`
	TotalAskSize float64          `json:"total_ask_size"`
	TotalBidSize float64          `json:"total_bid_size"`
	Levels       []OrderBookLevel `json:"orderbook_units"`
}

// BestAsk returns the lowest ask price, or 0 when the book is empty.
func (o OrderBookSnapshot) BestAsk() float64 {
	if len(o.Levels) == 0 {
		return 0
	}
	return o.Levels[0].AskPrice
}

// BestBid returns the highest bid price, or 0 when the book is empty.
func (o OrderBookSnapshot) BestBid() float64 {
	if len(o.Levels) == 0 {
		return 0
	}
	return o.Levels[0].BidPrice
}

// SentimentIndex is the crowd fear/greed reading on a 0-100 scale. A nil
// *SentimentIndex means "no sentiment signal this cycle" and is never
// substituted with a default value.
type SentimentIndex struct {
	Value          int       `json:"value"`
	Classification string    `json:"value_classification"`
	AsOf           time.Time `json:"as_of"`
}
