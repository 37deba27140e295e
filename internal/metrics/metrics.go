// Package metrics exposes Prometheus collectors for the board.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rpggio/projectboard/internal/domain/project"
)

// Metrics holds Prometheus metrics for the project board.
//
// Metrics:
//   - projectboard_projects_created_total - Count of projects added
//   - projectboard_projects_moved_total{to} - Count of status changes by target column
//   - projectboard_projects{status} - Current number of projects per column
//   - projectboard_subscribers - Current number of state subscribers
type Metrics struct {
	registry *prometheus.Registry

	ProjectsCreated prometheus.Counter
	ProjectsMoved   *prometheus.CounterVec
	Projects        *prometheus.GaugeVec
	Subscribers     prometheus.GaugeFunc
}

// New registers the board metrics on a fresh registry. Subscribers reads
// the live subscriber count from state.
func New(state *project.State) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		ProjectsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "projectboard_projects_created_total",
			Help: "Total number of projects added",
		}),
		ProjectsMoved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "projectboard_projects_moved_total",
			Help: "Total number of project status changes",
		}, []string{"to"}),
		Projects: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "projectboard_projects",
			Help: "Current number of projects per status",
		}, []string{"status"}),
		Subscribers: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "projectboard_subscribers",
			Help: "Current number of state subscribers",
		}, func() float64 { return float64(state.SubscriberCount()) }),
	}
	m.setCounts(state.Snapshot())
	return m
}

// Attach subscribes the collectors to state.
func (m *Metrics) Attach(state *project.State) *project.Subscription {
	return state.Subscribe(m.Record)
}

// Record updates the collectors from snap.
func (m *Metrics) Record(snap project.Snapshot) {
	switch snap.Change.Kind {
	case project.ChangeCreated:
		m.ProjectsCreated.Inc()
	case project.ChangeMoved:
		m.ProjectsMoved.WithLabelValues(string(snap.Change.Project.Status)).Inc()
	}
	m.setCounts(snap)
}

func (m *Metrics) setCounts(snap project.Snapshot) {
	for _, status := range []project.Status{project.StatusActive, project.StatusFinished} {
		m.Projects.WithLabelValues(string(status)).Set(float64(len(snap.Filter(status))))
	}
}

// Registry returns the registry holding the board metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
