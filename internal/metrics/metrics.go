// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/blinklabs-io/lwmad/difficulty"
	"github.com/blinklabs-io/lwmad/internal/config"
	"github.com/blinklabs-io/lwmad/internal/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lwmad"

var (
	hashChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pow",
		Name:      "hash_checks_total",
		Help:      "Count of PoW hash checks by comparator path and result.",
	}, []string{"path", "result"})

	blocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "blocks_total",
		Help:      "Count of blocks offered to the indexer.",
	}, []string{"status"})

	blockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "block_duration_seconds",
		Help:      "Duration of validating and storing a single block.",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
	}, []string{"status"})

	tipHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "chain",
		Name:      "tip_height",
		Help:      "Height of the most recently accepted block.",
	})

	nextDifficulty = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "chain",
		Name:      "next_difficulty",
		Help:      "Difficulty required for the next block (approximate above 2^53).",
	})

	dnsQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dns",
		Name:      "queries_total",
		Help:      "Count of DNS queries by record and response code.",
	}, []string{"record", "rcode"})
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveHashCheck records the outcome of a comparator call
func ObserveHashCheck(d difficulty.Value, ok bool) {
	path := "64"
	if !d.IsUint64() {
		path = "wide"
	}
	result := "rejected"
	if ok {
		result = "accepted"
	}
	hashChecksTotal.WithLabelValues(path, result).Inc()
}

func ObserveBlock(err error, started time.Time) {
	status := statusLabel(err)
	blocksTotal.WithLabelValues(status).Inc()
	blockDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

func SetTip(height uint64, next difficulty.Value) {
	tipHeight.Set(float64(height))
	nextDifficulty.Set(next.Float64())
}

func ObserveQuery(record string, rcode string) {
	dnsQueriesTotal.WithLabelValues(record, rcode).Inc()
}

// Start runs the metrics listener in the background
func Start() error {
	cfg := config.GetConfig()
	logger := logging.GetLogger()
	if cfg.Metrics.ListenPort == 0 {
		return nil
	}
	addr := fmt.Sprintf("%s:%d", cfg.Metrics.ListenAddress, cfg.Metrics.ListenPort)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	logger.Infof("starting metrics listener on %s", addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to start metrics listener: %s", err)
		}
	}()
	return nil
}
