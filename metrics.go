package main

import (
	"github.com/Tutortoise/example-decoder/decoder"
	"github.com/Tutortoise/example-decoder/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "example_decoder_records_total",
		Help: "Decoded records by outcome (ok or the rejection kind).",
	}, []string{"outcome"})

	metricsStageSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "example_decoder_stage_seconds",
		Help:    "Time spent per decode stage.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	}, []string{"stage"})

	metricsObjectsPerRecord = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "example_decoder_objects_per_record",
		Help:    "Number of annotated objects in successfully decoded records.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	metricsRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "example_decoder_rate_limited_total",
		Help: "Decode requests rejected by the rate limiter.",
	})
)

const outcomeOK = "ok"

func observeDecode(t *models.DecodeTimings, ex *decoder.Example, err error) {
	if err != nil {
		outcome := string(decoder.KindOf(err))
		if outcome == "" {
			outcome = "internal"
		}
		metricsRecordsTotal.WithLabelValues(outcome).Inc()
		return
	}

	metricsRecordsTotal.WithLabelValues(outcomeOK).Inc()
	metricsObjectsPerRecord.Observe(float64(ex.NumObjects()))
	metricsStageSeconds.WithLabelValues("parse").Observe(t.Parse.Seconds())
	metricsStageSeconds.WithLabelValues("annotations").Observe(t.Annotations.Seconds())
	metricsStageSeconds.WithLabelValues("image_decode").Observe(t.ImageDecode.Seconds())
	if ex.InstanceMasks != nil {
		metricsStageSeconds.WithLabelValues("masks").Observe(t.Masks.Seconds())
	}
	metricsStageSeconds.WithLabelValues("total").Observe(t.Total.Seconds())
}
