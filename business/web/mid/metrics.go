package mid

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/neuradesci/ledger/foundation/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// requestMetrics holds the collectors the middleware records into. They
// are registered once on the default registry, which the debug mux
// exposes.
type requestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	panicsTotal     prometheus.Counter
}

var metrics = requestMetrics{
	requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "path", "status"}),
	requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ledger",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency distribution.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"}),
	panicsTotal: promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ledger",
		Subsystem: "http",
		Name:      "panics_total",
		Help:      "Total number of panics recovered while handling requests.",
	}),
}

// Metrics updates the prometheus request counters for each request.
func Metrics() web.Middleware {

	m := func(handler web.Handler) web.Handler {

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v, err := web.GetValues(ctx)
			if err != nil {
				return web.NewShutdownError("web value missing from context")
			}

			err = handler(ctx, w, r)

			metrics.requestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(v.StatusCode)).Inc()
			metrics.requestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(v.Now).Seconds())

			return err
		}

		return h
	}

	return m
}
