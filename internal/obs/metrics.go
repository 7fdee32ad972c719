package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OverlaySubscribers     = promauto.NewGauge(prometheus.GaugeOpts{Name: "feerbot_overlay_subscribers", Help: "Currently connected overlay subscribers"})
	OverlayBroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{Name: "feerbot_overlay_broadcasts_total", Help: "Frames fanned out to subscribers"})
	OverlayDroppedTotal    = promauto.NewCounterVec(prometheus.CounterOpts{Name: "feerbot_overlay_dropped_total", Help: "Subscribers dropped by reason"}, []string{"reason"})
	OverlayFramesInTotal   = promauto.NewCounter(prometheus.CounterOpts{Name: "feerbot_overlay_frames_in_total", Help: "Frames received from subscribers"})
)
