package events

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsPublisher counts published events per topic so dashboards can watch
// purchase and session activity without consuming the event stream.
type MetricsPublisher struct {
	published *prometheus.CounterVec
}

// NewMetricsPublisher registers the event counter on reg and returns the
// publisher. Registration happens once per registry.
func NewMetricsPublisher(reg prometheus.Registerer) *MetricsPublisher {
	p := &MetricsPublisher{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airtime",
			Name:      "events_published_total",
			Help:      "Number of engine events published, by topic.",
		}, []string{"topic"}),
	}
	reg.MustRegister(p.published)
	return p
}

func (p *MetricsPublisher) Publish(ctx context.Context, topic string, payload any) {
	p.published.WithLabelValues(topic).Inc()
}
