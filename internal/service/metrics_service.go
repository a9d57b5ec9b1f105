package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the site.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	wizardTransitions *prometheus.CounterVec
	submissions       *prometheus.CounterVec
	dispatchDuration  *prometheus.HistogramVec
	resolverTiers     *prometheus.CounterVec
	inquiryWrites     *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	wizardTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_transitions_total",
		Help: "Enrollment wizard actions by outcome",
	}, []string{"action", "outcome"})

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_submissions_total",
		Help: "Enrollment form submissions by result",
	}, []string{"result"})

	dispatchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "email_dispatch_duration_seconds",
		Help:    "Latency of the transactional email call",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"delivered"})

	resolverTiers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "course_resolver_tier_total",
		Help: "Course resolutions by the tier that matched",
	}, []string{"tier"})

	inquiryWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inquiry_log_writes_total",
		Help: "Inquiry log writes by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, wizardTransitions, submissions, dispatchDuration, resolverTiers, inquiryWrites, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		wizardTransitions: wizardTransitions,
		submissions:       submissions,
		dispatchDuration:  dispatchDuration,
		resolverTiers:     resolverTiers,
		inquiryWrites:     inquiryWrites,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveWizardTransition counts a wizard action.
func (m *MetricsService) ObserveWizardTransition(action, outcome string) {
	if m == nil {
		return
	}
	m.wizardTransitions.WithLabelValues(action, outcome).Inc()
}

// ObserveSubmission counts a finished submission.
func (m *MetricsService) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

// ObserveDispatch records the email call latency.
func (m *MetricsService) ObserveDispatch(duration time.Duration, delivered bool) {
	if m == nil {
		return
	}
	m.dispatchDuration.WithLabelValues(fmt.Sprintf("%t", delivered)).Observe(duration.Seconds())
}

// ObserveResolverTier counts which resolver tier produced a course.
func (m *MetricsService) ObserveResolverTier(tier string) {
	if m == nil {
		return
	}
	m.resolverTiers.WithLabelValues(tier).Inc()
}

// ObserveInquiryWrite counts inquiry log writes.
func (m *MetricsService) ObserveInquiryWrite(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.inquiryWrites.WithLabelValues(result).Inc()
}
