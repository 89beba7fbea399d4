/*
Package metrics exports Prometheus metrics for the engine process: RPC
command throughput and latency, SMB share-cache hit rate, and per-command
error counts classified by engine error code.

# Usage

	collector, err := metrics.NewCollector(&metrics.Config{
		Enabled:   true,
		Port:      9722,
		Path:      "/metrics",
		Namespace: "duopane",
		Subsystem: "engine",
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := collector.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer collector.Stop(ctx)

	start := time.Now()
	err := handleCommand(req)
	collector.RecordCommand("list_directory_start", time.Since(start), err)

# Exported metrics

Counters:
  - duopane_engine_commands_total{command,status}
  - duopane_engine_command_errors_total{command,code}
  - duopane_engine_share_cache_requests_total{result}

Histograms:
  - duopane_engine_command_duration_seconds{command}

# Endpoints

/metrics serves the Prometheus exposition format; /debug/commands serves a
plain-text per-command summary for troubleshooting without a scrape.
*/
package metrics
