package config

// Config is the single configuration carrier for the whole process. It is
// loaded once at startup and passed into components explicitly; nothing reads
// ambient globals.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Market     MarketConfig     `mapstructure:"market"`
	Indicators IndicatorConfig  `mapstructure:"indicators"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Risk       RiskConfig       `mapstructure:"risk"`
	Upbit      UpbitConfig      `mapstructure:"upbit"`
	Oracle     OracleConfig     `mapstructure:"oracle"`
	Sentiment  SentimentConfig  `mapstructure:"sentiment"`
	Chart      ChartConfig      `mapstructure:"chart"`
	Store      StoreConfig      `mapstructure:"store"`
	Ledger     LedgerConfig     `mapstructure:"ledger"`
	Prompt     PromptConfig     `mapstructure:"prompt"`
}

type AppConfig struct {
	Env        string `mapstructure:"env"`
	LogLevel   string `mapstructure:"log_level"`
	LogPath    string `mapstructure:"log_path"`
	HTTPAddr   string `mapstructure:"http_addr"`
	OracleLog  string `mapstructure:"oracle_log_path"`
	OracleDump bool   `mapstructure:"oracle_dump"`
}

type MarketConfig struct {
	Pair        string `mapstructure:"pair"`         // e.g. "KRW-BTC"
	DailyCount  int    `mapstructure:"daily_count"`  // daily candles per cycle
	HourlyCount int    `mapstructure:"hourly_count"` // 60m candles per cycle
}

// Base returns the traded asset currency of the pair ("BTC" for "KRW-BTC").
func (m MarketConfig) Base() string {
	if i := indexByte(m.Pair, '-'); i >= 0 {
		return m.Pair[i+1:]
	}
	return m.Pair
}

// Quote returns the pricing currency of the pair ("KRW" for "KRW-BTC").
func (m MarketConfig) Quote() string {
	if i := indexByte(m.Pair, '-'); i >= 0 {
		return m.Pair[:i]
	}
	return ""
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

type IndicatorConfig struct {
	BollingerWindow int     `mapstructure:"bollinger_window"`
	BollingerDev    float64 `mapstructure:"bollinger_dev"`
	RSIPeriod       int     `mapstructure:"rsi_period"`
	SMAWindow       int     `mapstructure:"sma_window"`
	EMAWindow       int     `mapstructure:"ema_window"`
	MACDFast        int     `mapstructure:"macd_fast"`
	MACDSlow        int     `mapstructure:"macd_slow"`
	MACDSignal      int     `mapstructure:"macd_signal"`
}

// Warmup returns the number of leading bars on which at least one indicator
// column is still unpopulated. A candle series must be strictly longer than
// this to yield any feature row.
func (i IndicatorConfig) Warmup() int {
	warmup := i.BollingerWindow - 1
	if v := i.SMAWindow - 1; v > warmup {
		warmup = v
	}
	if v := i.EMAWindow - 1; v > warmup {
		warmup = v
	}
	// Wilder smoothing needs one extra bar for the first delta.
	if v := i.RSIPeriod; v > warmup {
		warmup = v
	}
	// MACD line stabilises at slow-1; the signal EMA adds signal-1 on top.
	if v := i.MACDSlow + i.MACDSignal - 2; v > warmup {
		warmup = v
	}
	return warmup
}

type ScheduleConfig struct {
	Times    []string `mapstructure:"times"`    // "HH:MM" wall-clock fire times
	Timezone string   `mapstructure:"timezone"` // IANA name, e.g. "Asia/Seoul"
	RunOnce  bool     `mapstructure:"run_once"` // fire a single cycle and exit
}

type RiskConfig struct {
	FeeRate     float64 `mapstructure:"fee_rate"`      // taker fee, e.g. 0.0005
	MinOrderKRW float64 `mapstructure:"min_order_krw"` // exchange minimum notional
}

type UpbitConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

type OracleConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	MaxTokens  int    `mapstructure:"max_tokens"`
	TimeoutSec int    `mapstructure:"timeout_seconds"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type SentimentConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	TimeoutSec int    `mapstructure:"timeout_seconds"`
}

type ChartConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TimeoutSec int  `mapstructure:"timeout_seconds"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"` // sqlite file for the trade ledger
}

type LedgerConfig struct {
	WindowDays int `mapstructure:"window_days"` // trailing window for reflection
}

type PromptConfig struct {
	Path string `mapstructure:"path"` // optional yaml with prompt overrides
}
