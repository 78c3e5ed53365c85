package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func validate(c *Config) error {
	if !strings.Contains(c.Market.Pair, "-") {
		return fmt.Errorf("market.pair must look like QUOTE-BASE (got %q)", c.Market.Pair)
	}
	if c.Indicators.MACDFast >= c.Indicators.MACDSlow {
		return fmt.Errorf("indicators.macd_fast must be < macd_slow")
	}
	if warmup := c.Indicators.Warmup(); c.Market.DailyCount <= warmup {
		return fmt.Errorf("market.daily_count (%d) must exceed the indicator warmup of %d bars, or no cycle can produce features",
			c.Market.DailyCount, warmup)
	}
	for _, t := range c.Schedule.Times {
		if _, _, err := ParseTimeOfDay(t); err != nil {
			return fmt.Errorf("schedule.times contains invalid entry %q: %w", t, err)
		}
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone invalid: %w", err)
	}
	if c.Risk.FeeRate >= 1 {
		return fmt.Errorf("risk.fee_rate must be a fraction, not a percentage (got %v)", c.Risk.FeeRate)
	}
	if strings.TrimSpace(c.Oracle.APIKey) == "" {
		return fmt.Errorf("oracle.api_key is required (set CHOONBOT_ORACLE_API_KEY)")
	}
	if strings.TrimSpace(c.Upbit.AccessKey) == "" || strings.TrimSpace(c.Upbit.SecretKey) == "" {
		return fmt.Errorf("upbit credentials are required (set CHOONBOT_UPBIT_ACCESS_KEY / CHOONBOT_UPBIT_SECRET_KEY)")
	}
	return nil
}

// ParseTimeOfDay parses "HH:MM" into hour and minute.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM")
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("hour out of range")
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("minute out of range")
	}
	return hour, minute, nil
}
