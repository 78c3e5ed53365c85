package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load reads the yaml config at path, layers CHOONBOT_* environment variables
// on top (e.g. CHOONBOT_UPBIT_ACCESS_KEY overrides upbit.access_key), applies
// defaults and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}
	v.SetEnvPrefix("CHOONBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AutomaticEnv only resolves keys viper already knows about, so the
// secret-bearing keys are bound explicitly; they are usually absent from the
// yaml file on purpose.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"upbit.access_key",
		"upbit.secret_key",
		"oracle.api_key",
	} {
		_ = v.BindEnv(key)
	}
}
