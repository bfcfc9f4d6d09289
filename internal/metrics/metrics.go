package metrics

import (
	"net/http"
	"time"

	"auction-engine/internal/auctionerrors"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	promNamespace = "auction"
	promSubsystem = "engine"
)

var (
	BidsTotal = prom.NewCounterVec(prom.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "bids_total",
		Help:      "bids processed, by result",
	}, []string{"result"})

	LotsFinalized = prom.NewCounterVec(prom.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "lots_finalized_total",
		Help:      "lots resolved, by outcome and trigger",
	}, []string{"outcome", "trigger"})

	ActiveSessions = prom.NewGauge(prom.GaugeOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "sessions",
		Help:      "auction sessions held by the registry",
	})

	Subscribers = prom.NewGauge(prom.GaugeOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "subscribers",
		Help:      "connected event subscribers",
	})

	SubscribersDropped = prom.NewCounter(prom.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "subscribers_dropped_total",
		Help:      "subscribers disconnected for falling behind",
	})

	commandLabels    = []string{"op"}
	commandHistogram = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "command_seconds",
		Help:      "time spent inside serialized session commands",
		Buckets:   prom.DefBuckets,
	}, commandLabels)
)

func init() {
	prom.MustRegister(BidsTotal)
	prom.MustRegister(LotsFinalized)
	prom.MustRegister(ActiveSessions)
	prom.MustRegister(Subscribers)
	prom.MustRegister(SubscribersDropped)
	prom.MustRegister(commandHistogram)
}

// ObserveBid counts a bid under the rejection reason, or "accepted"
func ObserveBid(err error) {
	if err == nil {
		BidsTotal.WithLabelValues("accepted").Inc()
		return
	}
	reason := auctionerrors.Reason(err)
	if reason == "" {
		reason = "error"
	}
	BidsTotal.WithLabelValues(reason).Inc()
}

// Time starts timing a session command; call the returned func when it ends.
func Time(op string) (end func()) {
	start := time.Now()
	return func() {
		commandHistogram.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
