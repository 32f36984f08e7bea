/**
 * @description
 * Environment-backed split policy settings. Unlike the rest of the config,
 * the split policy is read fresh on every calculation so that operators can
 * retune the platform's cut without a restart.
 */
package config

import (
	"strconv"

	"github.com/spf13/viper"
)

const (
	splitSystemPercentKey  = "SPLIT_SYSTEM_PERCENT"
	splitSystemFixedFeeKey = "SPLIT_SYSTEM_FIXED_FEE"

	defaultSystemPercent  = 0
	defaultSystemFixedFee = 2.00
)

// EnvSplitPolicy reads the platform's split settings from the environment on
// every call. Values are string-parseable decimals; unparseable or missing
// values fall back to the defaults (percent 0, fixed fee 2.00).
type EnvSplitPolicy struct{}

// NewEnvSplitPolicy creates the env-backed policy provider and binds its keys.
func NewEnvSplitPolicy() EnvSplitPolicy {
	_ = viper.BindEnv(splitSystemPercentKey)
	_ = viper.BindEnv(splitSystemFixedFeeKey)
	return EnvSplitPolicy{}
}

// SystemPercent returns the percentage of each payment the platform retains.
// A value greater than zero switches the calculator into percentage mode.
func (EnvSplitPolicy) SystemPercent() float64 {
	return parseSetting(splitSystemPercentKey, defaultSystemPercent)
}

// SystemFixedFee returns the flat fee the platform retains in fixed-fee mode.
func (EnvSplitPolicy) SystemFixedFee() float64 {
	return parseSetting(splitSystemFixedFeeKey, defaultSystemFixedFee)
}

func parseSetting(key string, fallback float64) float64 {
	raw := viper.GetString(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}
