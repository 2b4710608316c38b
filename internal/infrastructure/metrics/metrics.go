package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the storefront's domain metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	storageSteps *prometheus.CounterVec
	backups      prometheus.Gauge
	uploads      *prometheus.CounterVec
	contacts     prometheus.Counter
}

// New creates and registers the domain metrics
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		storageSteps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_storage_steps_total",
				Help: "Save pipeline steps by outcome",
			},
			[]string{"step", "result"},
		),
		backups: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "storefront_backups",
				Help: "Number of backup snapshots in the catalog",
			},
		),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_uploads_total",
				Help: "Media uploads by target and outcome",
			},
			[]string{"target", "result"},
		),
		contacts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "storefront_contacts_total",
				Help: "Contact form submissions",
			},
		),
	}

	reg.MustRegister(m.storageSteps, m.backups, m.uploads, m.contacts)
	return m
}

// ObserveStep counts one save pipeline step
func (m *Metrics) ObserveStep(step string, err error) {
	if m == nil {
		return
	}
	m.storageSteps.WithLabelValues(step, result(err)).Inc()
}

// SetBackups records the current catalog size
func (m *Metrics) SetBackups(n int) {
	if m == nil {
		return
	}
	m.backups.Set(float64(n))
}

// ObserveUpload counts one upload attempt
func (m *Metrics) ObserveUpload(target string, err error) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(target, result(err)).Inc()
}

// IncContacts counts one contact submission
func (m *Metrics) IncContacts() {
	if m == nil {
		return
	}
	m.contacts.Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
