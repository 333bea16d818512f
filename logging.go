package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Tutortoise/example-decoder/internal/logutil"
	"github.com/Tutortoise/example-decoder/models"
)

func parseLevel(v string) (slog.Level, error) {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log_config.log_level %q: unknown level", v)
}

// parseLevelPercents reads the per-level sampling table. Levels missing from
// the config are always logged.
func parseLevelPercents(cfg LogConfig) (map[slog.Level]float64, error) {
	out := make(map[slog.Level]float64, len(cfg.MinLevelPercents))
	for k, v := range cfg.MinLevelPercents {
		level, err := parseLevel(k)
		if err != nil {
			return nil, err
		}
		if v < 0 || v > 100 {
			return nil, fmt.Errorf("log_config.min_level_percents[%s]: %v is outside 0..100", k, v)
		}
		out[level] = v
	}
	return out, nil
}

func newLogger(w io.Writer, cfg LogConfig) (*slog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}
	percents, err := parseLevelPercents(cfg)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	}
	return logutil.NewPercentLogger(percents, handler, level, cfg.SampledPrefixes...), nil
}

func logTimings(logger *slog.Logger, t *models.DecodeTimings) {
	logger.Debug("[decode] processing times",
		"request_id", t.RequestID,
		"parse", t.Parse,
		"annotations", t.Annotations,
		"image_decode", t.ImageDecode,
		"masks", t.Masks,
		"total", t.Total,
	)
}
