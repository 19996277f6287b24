// Command mqttwiredump decodes a stream of length-prefixed hex-encoded
// MQTT control packets from stdin, logging each one and serving
// decode/encode metrics on /metrics. It exists to exercise the codec
// end to end, not as a production broker component.
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/axmq/mqttwire"
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/internal/metrics"
	"github.com/axmq/mqttwire/internal/tracelog"
)

func main() {
	addr := flag.String("metrics-addr", ":9108", "address to serve /metrics on")
	verbose := flag.Bool("v", false, "debug-level logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := tracelog.New(level, os.Stderr)

	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)
	go func() {
		http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		log.Info("serving metrics", "addr", *addr)
		if err := http.ListenAndServe(*addr, nil); err != nil {
			log.Error("metrics server stopped", "err", err)
		}
	}()

	if err := run(os.Stdin, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// run reads one hex-encoded packet per line from r, decoding each as
// a fresh CONNECT-first connection: a line-oriented stand-in for a
// real byte stream, chosen so the demo needs no framing logic of its
// own beyond what the codec already provides.
func run(r *os.File, log *slog.Logger) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		raw, err := hex.DecodeString(line)
		if err != nil {
			log.Warn("skipping malformed line", "err", err)
			continue
		}

		owned := buffer.NewOwned(raw, nil)
		owned.Fill(len(raw))
		shared := owned.Freeze()

		pkt, version, ok, err := mqttwire.DecodeConnect(shared)
		if err != nil {
			metrics.DecodeErrorsTotal.WithLabelValues(errors.UnwrapAll(err).Error()).Inc()
			log.Error("decode failed", "err", err)
			continue
		}
		if !ok {
			log.Warn("incomplete packet, skipping")
			continue
		}
		metrics.DecodeTotal.WithLabelValues(versionLabel(version), packetTypeLabel(*pkt)).Inc()
		log.Info("decoded packet", "version", versionLabel(version), "type", packetTypeLabel(*pkt))
	}
	return scanner.Err()
}

func versionLabel(v mqttwire.ProtocolVersion) string {
	switch v {
	case mqttwire.V311:
		return "3.1.1"
	case mqttwire.V5:
		return "5.0"
	default:
		return "unknown"
	}
}

func packetTypeLabel(p mqttwire.Packet) string {
	switch {
	case p.V3 != nil && p.V3.Connect != nil, p.V5 != nil && p.V5.Connect != nil:
		return "CONNECT"
	default:
		return "OTHER"
	}
}
