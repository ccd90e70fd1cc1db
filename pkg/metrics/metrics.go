package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics counts dual-write outcomes. Mirror failures are swallowed
// by design, so the counter is the only place they remain visible.
type CheckoutMetrics struct {
	OrdersPlaced         prometheus.Counter
	PrimaryWriteFailures prometheus.Counter
	MirrorFailures       prometheus.Counter
	MirrorRetries        prometheus.Counter
	SMSDispatches        *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *CheckoutMetrics {
	m := &CheckoutMetrics{
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrikart",
			Subsystem: "checkout",
			Name:      "orders_placed_total",
			Help:      "Orders successfully written to the primary store.",
		}),
		PrimaryWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrikart",
			Subsystem: "checkout",
			Name:      "primary_write_failures_total",
			Help:      "Order writes rejected by the primary store.",
		}),
		MirrorFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrikart",
			Subsystem: "checkout",
			Name:      "mirror_failures_total",
			Help:      "Secondary-store mirror writes that failed after retries.",
		}),
		MirrorRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrikart",
			Subsystem: "checkout",
			Name:      "mirror_retries_total",
			Help:      "Retry attempts against the secondary store.",
		}),
		SMSDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrikart",
			Subsystem: "checkout",
			Name:      "sms_dispatches_total",
			Help:      "OTP/SMS dispatch attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
	}

	reg.MustRegister(
		m.OrdersPlaced,
		m.PrimaryWriteFailures,
		m.MirrorFailures,
		m.MirrorRetries,
		m.SMSDispatches,
	)
	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}
