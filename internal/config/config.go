// Package config loads registry configuration from a file, environment
// variables and flags through viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/anvil-platform/moneta/internal/semver"
	"github.com/anvil-platform/moneta/internal/tracing"
)

// EnvPrefix prefixes environment overrides, e.g. MONETA_DEFAULT_AMOUNT_CLASS.
const EnvPrefix = "MONETA"

// Configuration keys.
const (
	KeyDefaultAmountClass         = "default.amount.class"
	KeyProvidersDir               = "providers.dir"
	KeyProvidersBuiltins          = "providers.builtins"
	KeyProvidersVersionConstraint = "providers.version_constraint"
	KeyServerGRPCAddr             = "server.grpc_addr"
	KeyServerMetricsAddr          = "server.metrics_addr"
	KeyCacheQueryTTL              = "cache.query_ttl"
	KeyTracingEnabled             = "tracing.enabled"
	KeyTracingExporter            = "tracing.exporter"
	KeyTracingSampleRate          = "tracing.sample_rate"
	KeyTracingServiceName         = "tracing.service_name"
)

// Config holds all configuration options for the registry.
type Config struct {
	Default   DefaultConfig   `mapstructure:"default"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Server    ServerConfig    `mapstructure:"server"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Tracing   tracing.Config  `mapstructure:"tracing"`
}

type DefaultConfig struct {
	Amount struct {
		// Class is the amount type used when a query names no requirements.
		Class string `mapstructure:"class"`
	} `mapstructure:"amount"`
}

type ProvidersConfig struct {
	// Dir holds AmountProvider manifests. Empty disables file discovery.
	Dir string `mapstructure:"dir"`
	// Builtins registers moneta.Money and moneta.FastMoney ahead of manifests.
	Builtins bool `mapstructure:"builtins"`
	// VersionConstraint drops manifest providers outside the range.
	VersionConstraint string `mapstructure:"version_constraint"`
}

type ServerConfig struct {
	GRPCAddr    string `mapstructure:"grpc_addr"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type CacheConfig struct {
	// QueryTTL bounds how long query results are memoised. 0 disables the cache.
	QueryTTL time.Duration `mapstructure:"query_ttl"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	cfg := Config{
		Providers: ProvidersConfig{Builtins: true},
		Server: ServerConfig{
			GRPCAddr:    ":9090",
			MetricsAddr: ":8080",
		},
		Cache:   CacheConfig{QueryTTL: 5 * time.Minute},
		Tracing: tracing.DefaultConfig(),
	}
	return cfg
}

// Load reads configuration into a Config. path may be empty, in which case
// only defaults, environment and bound flags apply.
func Load(v *viper.Viper, path string) (Config, error) {
	d := Defaults()
	v.SetDefault(KeyDefaultAmountClass, d.Default.Amount.Class)
	v.SetDefault(KeyProvidersDir, d.Providers.Dir)
	v.SetDefault(KeyProvidersBuiltins, d.Providers.Builtins)
	v.SetDefault(KeyProvidersVersionConstraint, d.Providers.VersionConstraint)
	v.SetDefault(KeyServerGRPCAddr, d.Server.GRPCAddr)
	v.SetDefault(KeyServerMetricsAddr, d.Server.MetricsAddr)
	v.SetDefault(KeyCacheQueryTTL, d.Cache.QueryTTL)
	v.SetDefault(KeyTracingEnabled, d.Tracing.Enabled)
	v.SetDefault(KeyTracingExporter, d.Tracing.Exporter)
	v.SetDefault(KeyTracingSampleRate, d.Tracing.SampleRate)
	v.SetDefault(KeyTracingServiceName, d.Tracing.ServiceName)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c Config) Validate() error {
	if raw := strings.TrimSpace(c.Providers.VersionConstraint); raw != "" {
		if _, err := semver.ParseConstraint(raw); err != nil {
			return fmt.Errorf("%s: %w", KeyProvidersVersionConstraint, err)
		}
	}
	if c.Cache.QueryTTL < 0 {
		return fmt.Errorf("%s must not be negative", KeyCacheQueryTTL)
	}
	switch c.Tracing.Exporter {
	case "", "none", "stdout":
	default:
		return fmt.Errorf("%s: unsupported exporter %q", KeyTracingExporter, c.Tracing.Exporter)
	}
	return nil
}

// DefaultAmountType returns the configured default amount type, or "".
func (c Config) DefaultAmountType() string {
	return strings.TrimSpace(c.Default.Amount.Class)
}

// VersionConstraint returns the parsed provider version constraint.
func (c Config) VersionConstraint() (semver.Constraint, bool) {
	raw := strings.TrimSpace(c.Providers.VersionConstraint)
	if raw == "" {
		return semver.Constraint{}, false
	}
	constraint, err := semver.ParseConstraint(raw)
	if err != nil {
		return semver.Constraint{}, false
	}
	return constraint, true
}
