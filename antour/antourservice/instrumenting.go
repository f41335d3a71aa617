package antourservice

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/kit/metrics"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Requests metrics.Counter
	Latency  metrics.Histogram
	Length   metrics.Histogram
}

// NewPrometheusMetrics registers the service metrics with the default
// prometheus registerer, it must be called once per process.
func NewPrometheusMetrics() Metrics {
	fieldKeys := []string{"method", "error"}
	return Metrics{
		Requests: kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: "antour",
			Subsystem: "service",
			Name:      "request_count",
			Help:      "Number of requests received.",
		}, fieldKeys),
		Latency: kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: "antour",
			Subsystem: "service",
			Name:      "request_latency_seconds",
			Help:      "Total duration of requests in seconds.",
		}, fieldKeys),
		Length: kitprometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: "antour",
			Subsystem: "service",
			Name:      "tour_length",
			Help:      "Length of the best tour returned.",
			Buckets:   stdprometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"cached"}),
	}
}

func NewInstrumentingMiddleware(m Metrics) Middleware {
	return func(next Service) Service {
		return instrumentingMiddleware{m, next}
	}
}

type instrumentingMiddleware struct {
	metrics Metrics
	next    Service
}

func (mw instrumentingMiddleware) Solve(ctx context.Context, c Configuration) (s Solution, err error) {
	defer func(begin time.Time) {
		mw.observe("Solve", s, err, begin)
	}(time.Now())
	return mw.next.Solve(ctx, c)
}

func (mw instrumentingMiddleware) Watch(ctx context.Context, c Configuration, p ProgressFunc) (s Solution, err error) {
	defer func(begin time.Time) {
		mw.observe("Watch", s, err, begin)
	}(time.Now())
	return mw.next.Watch(ctx, c, p)
}

func (mw instrumentingMiddleware) observe(method string, s Solution, err error, begin time.Time) {
	lvs := []string{"method", method, "error", fmt.Sprint(err != nil)}
	mw.metrics.Requests.With(lvs...).Add(1)
	mw.metrics.Latency.With(lvs...).Observe(time.Since(begin).Seconds())
	if err == nil {
		mw.metrics.Length.With("cached", fmt.Sprint(s.Cached)).Observe(s.Length)
	}
}
