package market

import (
	talib "github.com/markcheno/go-talib"

	"choonbot/internal/config"
)

// FeatureRow is a PriceBar extended with the derived indicator columns the
// oracle prompt is built from. Rows exist only where every configured
// indicator had a fully populated trailing window.
type FeatureRow struct {
	PriceBar
	BollingerMid  float64 `json:"bb_mid"`
	BollingerHigh float64 `json:"bb_high"`
	BollingerLow  float64 `json:"bb_low"`
	RSI           float64 `json:"rsi"`
	SMA           float64 `json:"sma"`
	EMA           float64 `json:"ema"`
	MACD          float64 `json:"macd"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDDiff      float64 `json:"macd_diff"`
}

// BuildFeatures derives the indicator table from an ascending bar series.
// It is a pure function: no clock, no network, deterministic for a given
// input. Bars that fall inside any indicator's warmup region are dropped
// rather than emitted with partial values; an input shorter than the largest
// warmup yields an empty result, which the caller may treat as a warning.
func BuildFeatures(bars []PriceBar, cfg config.IndicatorConfig) []FeatureRow {
	warmup := cfg.Warmup()
	if len(bars) == 0 || len(bars) <= warmup {
		return nil
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	bbHigh, bbMid, bbLow := talib.BBands(closes, cfg.BollingerWindow, cfg.BollingerDev, cfg.BollingerDev, talib.SMA)
	rsi := talib.Rsi(closes, cfg.RSIPeriod)
	sma := talib.Sma(closes, cfg.SMAWindow)
	ema := talib.Ema(closes, cfg.EMAWindow)
	macd, macdSignal, macdDiff := talib.Macd(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)

	rows := make([]FeatureRow, 0, len(bars)-warmup)
	for i := warmup; i < len(bars); i++ {
		rows = append(rows, FeatureRow{
			PriceBar:      bars[i],
			BollingerMid:  bbMid[i],
			BollingerHigh: bbHigh[i],
			BollingerLow:  bbLow[i],
			RSI:           rsi[i],
			SMA:           sma[i],
			EMA:           ema[i],
			MACD:          macd[i],
			MACDSignal:    macdSignal[i],
			MACDDiff:      macdDiff[i],
		})
	}
	return rows
}
