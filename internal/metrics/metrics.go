package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvstreams_channel_loads_total",
		Help: "Channel list loads by outcome",
	}, []string{"outcome"}) // outcome=remote|fallback

	fallbackReasons = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvstreams_channel_fallbacks_total",
		Help: "Fallbacks to the built-in channel list by reason",
	}, []string{"reason"}) // reason=network|parse|empty

	snapshotChannels = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tvstreams_snapshot_channels",
		Help: "Number of channels in the current snapshot",
	})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tvstreams_directory_fetch_seconds",
		Help:    "Duration of remote channel directory fetches",
		Buckets: prometheus.DefBuckets,
	})

	playlistImports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tvstreams_playlist_imports_total",
		Help: "Playlists parsed through the import endpoint",
	})
)

// RecordLoad records a completed load and the resulting snapshot size.
func RecordLoad(source string, channels int) {
	loadsTotal.WithLabelValues(source).Inc()
	snapshotChannels.Set(float64(channels))
}

// RecordFallback increments the fallback counter for reason.
func RecordFallback(reason string) {
	fallbackReasons.WithLabelValues(reason).Inc()
}

// ObserveFetch records a directory fetch duration in seconds.
func ObserveFetch(seconds float64) {
	fetchDuration.Observe(seconds)
}

// IncPlaylistImport counts a parsed user playlist.
func IncPlaylistImport() {
	playlistImports.Inc()
}
