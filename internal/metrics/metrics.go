package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"codewhisper/internal/db"
)

var (
	queryLookupDesc = prometheus.NewDesc(
		"codewhisper_query_lookups_total",
		"Total assist request count by repository and outcome",
		[]string{"repo", "outcome"},
		nil,
	)

	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codewhisper_requests_total",
			Help: "Assist requests by outcome",
		},
		[]string{"outcome"},
	)

	requestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codewhisper_request_duration_seconds",
			Help:    "End-to-end assist request duration",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
	)

	predictionsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codewhisper_predictions_generated_total",
			Help: "Total predictions produced by the resolution predictor",
		},
	)
)

// QueryLookupCollector is a custom Prometheus collector that reads lookup
// counts from the database on each scrape.
type QueryLookupCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *QueryLookupCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- queryLookupDesc
}

// Collect queries the database for all lookups and emits them as counters.
func (c *QueryLookupCollector) Collect(ch chan<- prometheus.Metric) {
	lookups, err := c.db.GetAllQueryLookups(context.Background())
	if err != nil {
		slog.Error("failed to collect query lookup metrics", "error", err)
		return
	}
	for _, l := range lookups {
		ch <- prometheus.MustNewConstMetric(
			queryLookupDesc,
			prometheus.CounterValue,
			float64(l.Count),
			l.Repo,
			l.Outcome,
		)
	}
}

// Recorder provides async lookup recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the collectors and initializes the recorder. database may
// be nil, in which case only the in-process metrics are registered and
// lookup recording is a no-op. Must be called once at startup.
func Init(database *db.DB) {
	recorderOnce.Do(func() {
		prometheus.MustRegister(requestsTotal, requestDuration, predictionsGenerated)
		if database != nil {
			recorder = &Recorder{db: database}
			prometheus.MustRegister(&QueryLookupCollector{db: database})
		}
	})
}

// RecordRequest records one completed assist request.
func RecordRequest(outcome string, duration time.Duration) {
	requestsTotal.WithLabelValues(outcome).Inc()
	requestDuration.Observe(duration.Seconds())
}

// RecordPredictions counts predictions produced for one request.
func RecordPredictions(n int) {
	predictionsGenerated.Add(float64(n))
}

// RecordQueryLookup asynchronously records a lookup outcome for a repository.
func RecordQueryLookup(repo, outcome string) {
	if recorder == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.db.IncrementQueryLookup(ctx, repo, outcome); err != nil {
			slog.Error("failed to record query lookup", "repo", repo, "error", err)
		}
	}()
}
