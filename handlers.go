package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Tutortoise/example-decoder/decoder"
	"github.com/Tutortoise/example-decoder/models"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type AppState struct {
	Pool           *DecoderPool
	Schema         []models.SchemaField
	Limiter        *rate.Limiter
	Logger         *slog.Logger
	MaxRecordBytes int64
}

type DecodeResponse struct {
	RequestID string               `json:"request_id"`
	Message   string               `json:"message"`
	Example   models.DecodeSummary `json:"example"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func newRouter(state *AppState) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/decode", handleDecode(state)).Methods("POST")
	r.HandleFunc("/schema", state.handleSchema).Methods("GET")
	r.HandleFunc("/healthz", handleHealth).Methods("GET")
	state.addMonitoringRoutes(r)
	return r
}

func (s *AppState) addMonitoringRoutes(r *mux.Router) {
	r.HandleFunc("/pool", s.handlePoolMetrics).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

func handleDecode(state *AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		logger := state.Logger.With("request_id", requestID)

		if state.Limiter != nil && !state.Limiter.Allow() {
			metricsRateLimited.Inc()
			sendErrorResponse(w, "rate_limited", MsgRateLimited, "", http.StatusTooManyRequests)
			return
		}

		if state.MaxRecordBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, state.MaxRecordBytes)
		}

		var data []byte
		var err error
		contentType := r.Header.Get("Content-Type")
		switch {
		case strings.HasPrefix(contentType, "application/json"):
			data, err = handleJSONRequest(r)
		case strings.HasPrefix(contentType, "multipart/form-data"):
			data, err = handleMultipartRequest(r, state.MaxRecordBytes)
		default:
			data, err = handleRawRequest(r)
		}
		if err != nil {
			sendErrorResponse(w, "invalid_request", "Failed to read record", err.Error(), http.StatusBadRequest)
			return
		}

		d, err := state.Pool.Acquire(r.Context())
		if err != nil {
			sendErrorResponse(w, "busy", MsgBusy, err.Error(), http.StatusServiceUnavailable)
			return
		}
		defer state.Pool.Release(d)

		timings := &models.DecodeTimings{RequestID: requestID}
		ex, err := d.DecodeTimed(data, timings)
		observeDecode(timings, ex, err)
		if err != nil {
			kind := decoder.KindOf(err)
			logger.Warn("[decode] record rejected",
				"kind", kind,
				"size", humanize.IBytes(uint64(len(data))),
				"error", err,
			)
			sendErrorResponse(w, string(kind), rejectionMessage(kind), err.Error(), http.StatusUnprocessableEntity)
			return
		}

		logTimings(logger, timings)
		logger.Info("[decode] record decoded",
			"source_id", ex.SourceID,
			"objects", ex.NumObjects(),
			"size", humanize.IBytes(uint64(len(data))),
			"took", timings.Total.Round(time.Microsecond),
		)

		writeJSON(w, http.StatusOK, DecodeResponse{
			RequestID: requestID,
			Message:   decodeMessage(ex.NumObjects()),
			Example:   ex.Summary(),
		})
	}
}

func (s *AppState) handleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"fields": s.Schema})
}

func (s *AppState) handlePoolMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Pool.Snapshot())
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleJSONRequest(r *http.Request) ([]byte, error) {
	var req struct {
		Record string `json:"record"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	if req.Record == "" {
		return nil, errors.New("missing record field")
	}
	return base64.StdEncoding.DecodeString(req.Record)
}

func handleMultipartRequest(r *http.Request, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = defaultMaxRecordBytes
	}
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, err
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("form file: %w", err)
	}
	defer file.Close()

	return io.ReadAll(file)
}

func handleRawRequest(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty request body")
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("[http] encode response", "error", err)
	}
}

func sendErrorResponse(w http.ResponseWriter, code, message, details string, status int) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}
