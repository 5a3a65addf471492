package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	IngestFilesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airq_ingest_files_total",
		Help: "Input files processed during ingestion, by status",
	}, []string{"status"})
	IngestPointsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airq_ingest_points_total",
		Help: "Data points read during ingestion, kept inside a region or dropped",
	}, []string{"result"})
	IngestDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "airq_ingest_duration_seconds",
		Help:    "Wall time of a full corpus ingestion",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})
	StoreReady = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "airq_store_ready",
		Help: "1 once the data store has finished loading",
	})
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airq_requests_total",
		Help: "API requests by route and status code",
	}, []string{"route", "code"})
)

func init() {
	prometheus.MustRegister(IngestFilesTotal)
	prometheus.MustRegister(IngestPointsTotal)
	prometheus.MustRegister(IngestDurationSeconds)
	prometheus.MustRegister(StoreReady)
	prometheus.MustRegister(RequestsTotal)
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }
