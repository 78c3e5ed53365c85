package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
upbit:
  access_key: test-access
  secret_key: test-secret
oracle:
  api_key: test-oracle
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	assert.NoError(t, err)

	assert.Equal(t, "KRW-BTC", cfg.Market.Pair)
	assert.Equal(t, 60, cfg.Market.DailyCount)
	assert.Equal(t, 48, cfg.Market.HourlyCount)
	// A default series must survive the indicator warmup with rows to spare.
	assert.Greater(t, cfg.Market.DailyCount, cfg.Indicators.Warmup())
	assert.Greater(t, cfg.Market.HourlyCount, cfg.Indicators.Warmup())
	assert.Equal(t, 20, cfg.Indicators.BollingerWindow)
	assert.Equal(t, 14, cfg.Indicators.RSIPeriod)
	assert.Equal(t, 26, cfg.Indicators.MACDSlow)
	assert.Equal(t, []string{"11:00", "23:00"}, cfg.Schedule.Times)
	assert.Equal(t, "Asia/Seoul", cfg.Schedule.Timezone)
	assert.Equal(t, 0.0005, cfg.Risk.FeeRate)
	assert.Equal(t, float64(5000), cfg.Risk.MinOrderKRW)
	assert.Equal(t, "gpt-4o", cfg.Oracle.Model)
	assert.Equal(t, 7, cfg.Ledger.WindowDays)
}

func TestLoadOverridesFromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
market:
  pair: KRW-ETH
  daily_count: 60
schedule:
  times: ["09:30"]
  timezone: UTC
`))
	assert.NoError(t, err)
	assert.Equal(t, "KRW-ETH", cfg.Market.Pair)
	assert.Equal(t, "ETH", cfg.Market.Base())
	assert.Equal(t, "KRW", cfg.Market.Quote())
	assert.Equal(t, 60, cfg.Market.DailyCount)
	assert.Equal(t, []string{"09:30"}, cfg.Schedule.Times)
	assert.Equal(t, "UTC", cfg.Schedule.Timezone)
}

func TestLoadSecretsFromEnv(t *testing.T) {
	t.Setenv("CHOONBOT_UPBIT_ACCESS_KEY", "env-access")
	t.Setenv("CHOONBOT_UPBIT_SECRET_KEY", "env-secret")
	t.Setenv("CHOONBOT_ORACLE_API_KEY", "env-oracle")

	cfg, err := Load(writeConfig(t, "app:\n  env: prod\n"))
	assert.NoError(t, err)
	assert.Equal(t, "env-access", cfg.Upbit.AccessKey)
	assert.Equal(t, "env-secret", cfg.Upbit.SecretKey)
	assert.Equal(t, "env-oracle", cfg.Oracle.APIKey)
}

func TestLoadRejectsBrokenConfig(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing credentials", "app:\n  env: dev\n"},
		{"bad schedule time", minimalConfig + "schedule:\n  times: [\"25:00\"]\n"},
		{"bad timezone", minimalConfig + "schedule:\n  timezone: Mars/Olympus\n"},
		{"macd fast not below slow", minimalConfig + "indicators:\n  macd_fast: 30\n  macd_slow: 26\n"},
		{"daily count below indicator warmup", minimalConfig + "market:\n  daily_count: 30\n"},
		{"daily count exactly at warmup", minimalConfig + "market:\n  daily_count: 33\n"},
		{"fee as percentage", minimalConfig + "risk:\n  fee_rate: 5\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestIndicatorWarmup(t *testing.T) {
	defaults := IndicatorConfig{}
	defaults.applyDefaults()
	// MACD 12/26/9 dominates: 26 + 9 - 2.
	assert.Equal(t, 33, defaults.Warmup())

	wideSMA := defaults
	wideSMA.SMAWindow = 50
	assert.Equal(t, 49, wideSMA.Warmup())

	wideRSI := defaults
	wideRSI.RSIPeriod = 40
	assert.Equal(t, 40, wideRSI.Warmup())
}

func TestParseTimeOfDay(t *testing.T) {
	hour, minute, err := ParseTimeOfDay("11:00")
	assert.NoError(t, err)
	assert.Equal(t, 11, hour)
	assert.Equal(t, 0, minute)

	hour, minute, err = ParseTimeOfDay(" 23:45 ")
	assert.NoError(t, err)
	assert.Equal(t, 23, hour)
	assert.Equal(t, 45, minute)

	for _, bad := range []string{"", "11", "11:7:3", "24:00", "12:60", "ab:cd"} {
		_, _, err := ParseTimeOfDay(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
