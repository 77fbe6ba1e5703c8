package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry. A nil *Recorder records nothing.
type Recorder struct {
	registry        *prometheus.Registry
	sessionsLogged  *prometheus.CounterVec
	logFailures     *prometheus.CounterVec
	progressQueries prometheus.Counter
	hookDispatches  *prometheus.CounterVec
}

func New(namespace string) *Recorder {
	if namespace == "" {
		namespace = "pomodoro"
	}
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sessionsLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_logged_total",
			Help:      "Session records appended to the progress log",
		}, []string{"kind"}),
		logFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_log_failures_total",
			Help:      "Rejected or failed session log attempts",
		}, []string{"reason"}),
		progressQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "progress_queries_total",
			Help:      "Aggregate queries served",
		}),
		hookDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hook_dispatches_total",
			Help:      "Hook notifications by hook and outcome",
		}, []string{"hook", "outcome"}),
	}
	r.registry.MustRegister(
		r.sessionsLogged,
		r.logFailures,
		r.progressQueries,
		r.hookDispatches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) SessionLogged(kind string) {
	if r == nil {
		return
	}
	r.sessionsLogged.WithLabelValues(kind).Inc()
}

func (r *Recorder) LogFailed(reason string) {
	if r == nil {
		return
	}
	r.logFailures.WithLabelValues(reason).Inc()
}

func (r *Recorder) ProgressQueried() {
	if r == nil {
		return
	}
	r.progressQueries.Inc()
}

func (r *Recorder) HookDispatched(hook string, ok bool) {
	if r == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	r.hookDispatches.WithLabelValues(hook, outcome).Inc()
}

func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
