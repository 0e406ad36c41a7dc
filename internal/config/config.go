package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	LCDURL       string
	ChainID      string
	Validator    string
	Account      string
	AssetID      string
	ChainAPR     string
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetryBackoff time.Duration

	ValidatorsPath string
	StakingPath    string
	MarketPath     string
	AssetsPath     string

	LogLevel string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STAKINGSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain-id", "cosmos:cosmoshub-4")
	v.SetDefault("chain-apr", "0.16")
	v.SetDefault("http-timeout", 30*time.Second)
	v.SetDefault("max-retries", 0)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		LCDURL:         v.GetString("lcd-url"),
		ChainID:        v.GetString("chain-id"),
		Validator:      v.GetString("validator"),
		Account:        v.GetString("account"),
		AssetID:        v.GetString("asset"),
		ChainAPR:       v.GetString("chain-apr"),
		HTTPTimeout:    v.GetDuration("http-timeout"),
		MaxRetries:     v.GetInt("max-retries"),
		RetryBackoff:   v.GetDuration("retry-backoff"),
		ValidatorsPath: v.GetString("validators"),
		StakingPath:    v.GetString("staking"),
		MarketPath:     v.GetString("market"),
		AssetsPath:     v.GetString("assets"),
		LogLevel:       v.GetString("log-level"),
	}

	return cfg, nil
}
