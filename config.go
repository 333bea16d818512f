package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Tutortoise/example-decoder/decoder"
	"github.com/dustin/go-humanize"
	"github.com/pelletier/go-toml/v2"
)

const (
	defaultAddr           = "127.0.0.1:8080"
	defaultTimeout        = 60 * time.Second
	defaultMaxRecordBytes = 32 << 20
	defaultAcquireTimeout = 5 * time.Second
)

// Config is the service configuration read from a TOML file.
type Config struct {
	HTTP      HTTPConfig    `toml:"http"`
	Decoder   DecoderConfig `toml:"decoder"`
	Pool      PoolConfig    `toml:"pool"`
	Limiter   LimiterConfig `toml:"limiter"`
	LogConfig LogConfig     `toml:"log_config"`
}

type HTTPConfig struct {
	Addr          string `toml:"addr"`
	ReadTimeout   string `toml:"read_timeout"`
	WriteTimeout  string `toml:"write_timeout"`
	MaxRecordSize string `toml:"max_record_size"`
}

type DecoderConfig struct {
	IncludeMask         bool `toml:"include_mask"`
	RegenerateSourceID  bool `toml:"regenerate_source_id"`
	ActivatePseudoScore bool `toml:"activate_pseudo_score"`
}

type PoolConfig struct {
	Size           int    `toml:"size"`
	AcquireTimeout string `toml:"acquire_timeout"`
}

// LimiterConfig bounds the rate of decode requests. A zero RatePerSecond
// disables limiting.
type LimiterConfig struct {
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
}

// LogConfig selects the log level and format. MinLevelPercents samples only
// messages starting with one of SampledPrefixes, or all messages when it is
// empty.
type LogConfig struct {
	LogLevel         string             `toml:"log_level"`
	Format           string             `toml:"format"`
	MinLevelPercents map[string]float64 `toml:"min_level_percents"`
	SampledPrefixes  []string           `toml:"sampled_prefixes"`
	Debug            bool               `toml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:          defaultAddr,
			ReadTimeout:   defaultTimeout.String(),
			WriteTimeout:  defaultTimeout.String(),
			MaxRecordSize: humanize.IBytes(defaultMaxRecordBytes),
		},
		Pool: PoolConfig{
			Size:           DefaultPoolSize,
			AcquireTimeout: defaultAcquireTimeout.String(),
		},
		LogConfig: LogConfig{
			LogLevel:        "info",
			Format:          "text",
			SampledPrefixes: []string{"[decode]"},
		},
	}
}

// LoadConfig reads path over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is empty")
	}
	for name, v := range map[string]string{
		"http.read_timeout":    c.HTTP.ReadTimeout,
		"http.write_timeout":   c.HTTP.WriteTimeout,
		"pool.acquire_timeout": c.Pool.AcquireTimeout,
	} {
		if _, err := parseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if _, err := c.HTTP.maxRecordBytes(); err != nil {
		return fmt.Errorf("http.max_record_size: %w", err)
	}
	if c.Pool.Size < 0 {
		return fmt.Errorf("pool.size must not be negative")
	}
	if c.Limiter.RatePerSecond < 0 || c.Limiter.Burst < 0 {
		return fmt.Errorf("limiter values must not be negative")
	}
	if _, err := parseLevel(c.LogConfig.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogConfig.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_config.format %q: must be text or json", c.LogConfig.Format)
	}
	return nil
}

func (d DecoderConfig) decoderConfig() decoder.Config {
	return decoder.Config{
		IncludeMask:         d.IncludeMask,
		RegenerateSourceID:  d.RegenerateSourceID,
		ActivatePseudoScore: d.ActivatePseudoScore,
	}
}

func (h HTTPConfig) maxRecordBytes() (int64, error) {
	if h.MaxRecordSize == "" {
		return defaultMaxRecordBytes, nil
	}
	n, err := humanize.ParseBytes(h.MaxRecordSize)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

// parseDuration treats an empty value as zero.
func parseDuration(v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	return time.ParseDuration(v)
}

func durationOr(v string, fallback time.Duration) time.Duration {
	d, err := parseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
