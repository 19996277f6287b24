// Package metrics holds the Prometheus instrumentation cmd/mqttwiredump
// exposes; library callers that embed the codec directly can ignore
// this package or register the same collectors against their own
// registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// DecodeTotal counts every packet successfully decoded, labeled by
	// protocol version and packet type name.
	DecodeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mqttwire",
		Name:      "decode_total",
		Help:      "Control packets successfully decoded.",
	}, []string{"version", "packet_type"})

	// DecodeErrorsTotal counts decode failures, labeled by the
	// message of the sentinel at the root of the error's wrap chain.
	DecodeErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mqttwire",
		Name:      "decode_errors_total",
		Help:      "Control packet decode failures.",
	}, []string{"kind"})

	// EncodeBytes observes the wire size of every packet encoded.
	EncodeBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mqttwire",
		Name:      "encode_bytes",
		Help:      "Size in bytes of encoded control packets.",
		Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
	}, []string{"version", "packet_type"})
)

// MustRegister registers every collector in this package against reg.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(DecodeTotal, DecodeErrorsTotal, EncodeBytes)
}
