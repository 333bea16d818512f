// Package logutil provides a slog handler that thins out high-volume records.
package logutil

import (
	"context"
	"log/slog"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"
)

// PercentLogger keeps a record whose message starts with one of the sampled
// prefixes with the probability configured for its level. Records outside
// those prefixes, and levels without a percentage, always reach the handler.
// An empty prefix list samples every message.
type PercentLogger struct {
	handler       slog.Handler
	levelPercents map[slog.Level]float64
	minLevel      slog.Level
	prefixes      []string
}

func NewPercentLogger(levelPercents map[slog.Level]float64, handler slog.Handler, minLevel slog.Level, prefixes ...string) *slog.Logger {
	return slog.New(&PercentLogger{
		handler:       handler,
		levelPercents: maps.Clone(levelPercents),
		minLevel:      minLevel,
		prefixes:      slices.Clone(prefixes),
	})
}

func (pl *PercentLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= pl.minLevel && pl.handler.Enabled(ctx, level)
}

func (pl *PercentLogger) Handle(ctx context.Context, r slog.Record) error {
	if pl.sampled(r.Message) && !pl.keep(r.Level) {
		return nil
	}
	return pl.handler.Handle(ctx, r)
}

func (pl *PercentLogger) sampled(msg string) bool {
	if len(pl.prefixes) == 0 {
		return true
	}
	for _, p := range pl.prefixes {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}

func (pl *PercentLogger) keep(level slog.Level) bool {
	percent, ok := pl.levelPercents[level]
	if !ok {
		return true
	}
	return rand.Float64()*100 < percent
}

func (pl *PercentLogger) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *pl
	clone.handler = pl.handler.WithAttrs(attrs)
	return &clone
}

func (pl *PercentLogger) WithGroup(name string) slog.Handler {
	clone := *pl
	clone.handler = pl.handler.WithGroup(name)
	return &clone
}
