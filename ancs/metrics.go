package ancs

import "github.com/prometheus/client_golang/prometheus"

// Metrics collects Prometheus counters for one or more Sessions. A nil
// *Metrics is never passed to a Session; WithMetrics is simply omitted
// when no registerer is available.
type Metrics struct {
	notifications     *prometheus.CounterVec
	notifAttrs        prometheus.Counter
	appAttrs          prometheus.Counter
	providerErrors    *prometheus.CounterVec
	invalidNotifTotal prometheus.Counter
}

// NewMetrics builds and registers the ancs collectors against reg. It
// panics if any collector is already registered, matching
// prometheus.MustRegister's convention for process-lifetime metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ancs",
			Name:      "notifications_total",
			Help:      "Notification Source records decoded, by event id.",
		}, []string{"event"}),
		notifAttrs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ancs",
			Name:      "notification_attributes_total",
			Help:      "Notification attributes completed by the Data Source parser.",
		}),
		appAttrs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ancs",
			Name:      "app_attributes_total",
			Help:      "App attributes completed by the Data Source parser.",
		}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ancs",
			Name:      "provider_errors_total",
			Help:      "Control Point write responses carrying a non-zero provider status.",
		}, []string{"code"}),
		invalidNotifTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ancs",
			Name:      "invalid_notifications_total",
			Help:      "Notification Source records rejected as malformed.",
		}),
	}
	reg.MustRegister(m.notifications, m.notifAttrs, m.appAttrs, m.providerErrors, m.invalidNotifTotal)
	return m
}

func (m *Metrics) observe(evt Event) {
	switch evt.Kind {
	case EventNotif:
		m.notifications.WithLabelValues(evt.Notification.EventID.String()).Inc()
	case EventInvalidNotif:
		m.invalidNotifTotal.Inc()
	case EventNotifAttribute:
		m.notifAttrs.Inc()
	case EventAppAttribute:
		m.appAttrs.Inc()
	case EventProviderError:
		if evt.ProviderError != 0 {
			m.providerErrors.WithLabelValues(evt.ProviderError.String()).Inc()
		}
	}
}
