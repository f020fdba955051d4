// Package observability records what the dispatcher does: OpenTelemetry
// spans and metrics pushed over OTLP/HTTP, and Prometheus counters the CLI
// can dump to a node-exporter textfile.
//
//	cfg := observability.DefaultExportConfig("geocode")
//	exp, err := observability.Setup(ctx, &cfg)
//	defer exp.Shutdown(ctx)
//
//	prom := observability.NewPromRecorder(nil)
//	otelMetrics, _ := observability.NewMetrics(observability.Meter("geocode"))
//	rec := observability.MultiRecorder{prom, otelMetrics}
//	rec.RecordGeocode(ctx, "osm", "geocode", observability.OutcomeOK, d)
//	err = prom.WriteTextfile("/var/lib/node_exporter/geocode.prom")
package observability
