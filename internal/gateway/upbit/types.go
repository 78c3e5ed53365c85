package upbit

import (
	"strconv"
	"time"

	"choonbot/internal/market"
)

// Upbit serialises most numbers as strings; payload types keep the raw wire
// shape and convert at the edge.

type accountPayload struct {
	Currency    string `json:"currency"`
	Balance     string `json:"balance"`
	Locked      string `json:"locked"`
	AvgBuyPrice string `json:"avg_buy_price"`
	UnitCurr    string `json:"unit_currency"`
}

type orderBookPayload struct {
	Market       string  `json:"market"`
	Timestamp    int64   `json:"timestamp"`
	TotalAskSize float64 `json:"total_ask_size"`
	TotalBidSize float64 `json:"total_bid_size"`
	Units        []struct {
		AskPrice float64 `json:"ask_price"`
		BidPrice float64 `json:"bid_price"`
		AskSize  float64 `json:"ask_size"`
		BidSize  float64 `json:"bid_size"`
	} `json:"orderbook_units"`
}

func (p orderBookPayload) toSnapshot() market.OrderBookSnapshot {
	levels := make([]market.OrderBookLevel, 0, len(p.Units))
	for _, u := range p.Units {
		levels = append(levels, market.OrderBookLevel{
			AskPrice: u.AskPrice,
			BidPrice: u.BidPrice,
			AskSize:  u.AskSize,
			BidSize:  u.BidSize,
		})
	}
	return market.OrderBookSnapshot{
		Pair:         p.Market,
		Timestamp:    time.UnixMilli(p.Timestamp).UTC(),
		TotalAskSize: p.TotalAskSize,
		TotalBidSize: p.TotalBidSize,
		Levels:       levels,
	}
}

type candlePayload struct {
	Market        string  `json:"market"`
	CandleTimeUTC string  `json:"candle_date_time_utc"`
	Opening       float64 `json:"opening_price"`
	High          float64 `json:"high_price"`
	Low           float64 `json:"low_price"`
	Trade         float64 `json:"trade_price"`
	AccValue      float64 `json:"candle_acc_trade_price"`
	AccVolume     float64 `json:"candle_acc_trade_volume"`
}

func (p candlePayload) toBar() market.PriceBar {
	ts, _ := time.Parse("2006-01-02T15:04:05", p.CandleTimeUTC)
	return market.PriceBar{
		Timestamp: ts.UTC(),
		Open:      p.Opening,
		High:      p.High,
		Low:       p.Low,
		Close:     p.Trade,
		Volume:    p.AccVolume,
		Value:     p.AccValue,
	}
}

type orderPayload struct {
	UUID      string `json:"uuid"`
	Side      string `json:"side"`
	OrdType   string `json:"ord_type"`
	Price     string `json:"price"`
	Volume    string `json:"volume"`
	State     string `json:"state"`
	Market    string `json:"market"`
	CreatedAt string `json:"created_at"`
	PaidFee   string `json:"paid_fee"`
}

// OrderReceipt is the acknowledged order as reported by the exchange.
type OrderReceipt struct {
	UUID      string
	Side      string
	OrdType   string
	Price     float64
	Volume    float64
	State     string
	Market    string
	PaidFee   float64
	CreatedAt string
}

func (p orderPayload) toReceipt() *OrderReceipt {
	return &OrderReceipt{
		UUID:      p.UUID,
		Side:      p.Side,
		OrdType:   p.OrdType,
		Price:     parseFloat(p.Price),
		Volume:    parseFloat(p.Volume),
		State:     p.State,
		Market:    p.Market,
		PaidFee:   parseFloat(p.PaidFee),
		CreatedAt: p.CreatedAt,
	}
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
