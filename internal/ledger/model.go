// Package ledger persists one TradeRecord per cycle and computes realized
// performance over a trailing window. Records are append-only; the core never
// updates or deletes them.
package ledger

import "time"

// TradeRecord is the audited outcome of one cycle. Percentage reflects what
// actually happened: 0 whenever no order was submitted, even if the oracle
// asked for more.
type TradeRecord struct {
	ID             int64     `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Decision       string    `json:"decision"`
	Percentage     int       `json:"percentage"`
	Reason         string    `json:"reason"`
	BTCBalance     float64   `json:"btc_balance"`
	KRWBalance     float64   `json:"krw_balance"`
	AvgBuyPrice    float64   `json:"avg_buy_price"`
	ReferencePrice float64   `json:"reference_price"`
	Reflection     string    `json:"reflection"`
}

// tradeModel is the gorm row shape. Timestamps are stored as RFC3339 text so
// the cutoff query stays a plain string comparison.
type tradeModel struct {
	ID             int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp      string  `gorm:"column:timestamp;index;not null"`
	Decision       string  `gorm:"column:decision;size:10;not null"`
	Percentage     int     `gorm:"column:percentage;not null"`
	Reason         string  `gorm:"column:reason;type:text"`
	BTCBalance     float64 `gorm:"column:btc_balance"`
	KRWBalance     float64 `gorm:"column:krw_balance"`
	AvgBuyPrice    float64 `gorm:"column:avg_buy_price"`
	ReferencePrice float64 `gorm:"column:reference_price"`
	Reflection     string  `gorm:"column:reflection;type:text"`
}

func (tradeModel) TableName() string { return "trades" }

func newTradeModel(rec TradeRecord) tradeModel {
	return tradeModel{
		Timestamp:      rec.Timestamp.UTC().Format(time.RFC3339),
		Decision:       rec.Decision,
		Percentage:     rec.Percentage,
		Reason:         rec.Reason,
		BTCBalance:     rec.BTCBalance,
		KRWBalance:     rec.KRWBalance,
		AvgBuyPrice:    rec.AvgBuyPrice,
		ReferencePrice: rec.ReferencePrice,
		Reflection:     rec.Reflection,
	}
}

func (m tradeModel) toRecord() TradeRecord {
	ts, _ := time.Parse(time.RFC3339, m.Timestamp)
	return TradeRecord{
		ID:             m.ID,
		Timestamp:      ts,
		Decision:       m.Decision,
		Percentage:     m.Percentage,
		Reason:         m.Reason,
		BTCBalance:     m.BTCBalance,
		KRWBalance:     m.KRWBalance,
		AvgBuyPrice:    m.AvgBuyPrice,
		ReferencePrice: m.ReferencePrice,
		Reflection:     m.Reflection,
	}
}
