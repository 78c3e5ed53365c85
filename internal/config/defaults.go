package config

const (
	defaultAppEnv       = "dev"
	defaultAppLogLevel  = "info"
	defaultAppHTTPAddr  = ":8090"
	defaultPair         = "KRW-BTC"
	// Both counts must clear the largest indicator warmup (33 bars with the
	// default MACD 12/26/9), or no cycle can ever produce a feature row.
	defaultDailyCount   = 60
	defaultHourlyCount  = 48
	defaultBBWindow     = 20
	defaultBBDev        = 2.0
	defaultRSIPeriod    = 14
	defaultSMAWindow    = 20
	defaultEMAWindow    = 12
	defaultMACDFast     = 12
	defaultMACDSlow     = 26
	defaultMACDSignal   = 9
	defaultTimezone     = "Asia/Seoul"
	defaultFeeRate      = 0.0005
	defaultMinOrderKRW  = 5000
	defaultUpbitURL     = "https://api.upbit.com"
	defaultUpbitTimeout = 10000
	defaultOracleURL    = "https://api.openai.com/v1"
	defaultOracleModel  = "gpt-4o"
	defaultOracleTokens = 4095
	defaultOracleWait   = 120
	defaultFNGEndpoint  = "https://api.alternative.me/fng/"
	defaultFNGTimeout   = 5
	defaultChartTimeout = 30
	defaultStorePath    = "data/trades.db"
	defaultWindowDays   = 7
)

var defaultScheduleTimes = []string{"11:00", "23:00"}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = defaultAppEnv
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = defaultAppLogLevel
	}
	if c.App.HTTPAddr == "" {
		c.App.HTTPAddr = defaultAppHTTPAddr
	}
	if c.Market.Pair == "" {
		c.Market.Pair = defaultPair
	}
	if c.Market.DailyCount <= 0 {
		c.Market.DailyCount = defaultDailyCount
	}
	if c.Market.HourlyCount <= 0 {
		c.Market.HourlyCount = defaultHourlyCount
	}
	c.Indicators.applyDefaults()
	if len(c.Schedule.Times) == 0 {
		c.Schedule.Times = append([]string(nil), defaultScheduleTimes...)
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = defaultTimezone
	}
	if c.Risk.FeeRate <= 0 {
		c.Risk.FeeRate = defaultFeeRate
	}
	if c.Risk.MinOrderKRW <= 0 {
		c.Risk.MinOrderKRW = defaultMinOrderKRW
	}
	if c.Upbit.BaseURL == "" {
		c.Upbit.BaseURL = defaultUpbitURL
	}
	if c.Upbit.TimeoutMS <= 0 {
		c.Upbit.TimeoutMS = defaultUpbitTimeout
	}
	if c.Oracle.BaseURL == "" {
		c.Oracle.BaseURL = defaultOracleURL
	}
	if c.Oracle.Model == "" {
		c.Oracle.Model = defaultOracleModel
	}
	if c.Oracle.MaxTokens <= 0 {
		c.Oracle.MaxTokens = defaultOracleTokens
	}
	if c.Oracle.TimeoutSec <= 0 {
		c.Oracle.TimeoutSec = defaultOracleWait
	}
	if c.Sentiment.Endpoint == "" {
		c.Sentiment.Endpoint = defaultFNGEndpoint
	}
	if c.Sentiment.TimeoutSec <= 0 {
		c.Sentiment.TimeoutSec = defaultFNGTimeout
	}
	if c.Chart.TimeoutSec <= 0 {
		c.Chart.TimeoutSec = defaultChartTimeout
	}
	if c.Store.Path == "" {
		c.Store.Path = defaultStorePath
	}
	if c.Ledger.WindowDays <= 0 {
		c.Ledger.WindowDays = defaultWindowDays
	}
}

func (i *IndicatorConfig) applyDefaults() {
	if i.BollingerWindow <= 0 {
		i.BollingerWindow = defaultBBWindow
	}
	if i.BollingerDev <= 0 {
		i.BollingerDev = defaultBBDev
	}
	if i.RSIPeriod <= 0 {
		i.RSIPeriod = defaultRSIPeriod
	}
	if i.SMAWindow <= 0 {
		i.SMAWindow = defaultSMAWindow
	}
	if i.EMAWindow <= 0 {
		i.EMAWindow = defaultEMAWindow
	}
	if i.MACDFast <= 0 {
		i.MACDFast = defaultMACDFast
	}
	if i.MACDSlow <= 0 {
		i.MACDSlow = defaultMACDSlow
	}
	if i.MACDSignal <= 0 {
		i.MACDSignal = defaultMACDSignal
	}
}
