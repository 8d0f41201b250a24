package main

import (
	"net/http"
	"time"

	"github.com/gputools/tritonrun/internal/gpu"
	"github.com/gputools/tritonrun/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const gpuStatsPollInterval = 15 * time.Second

func serveCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Expose launch and GPU metrics over HTTP",
		Action: func(c *cli.Context) error {
			log := state.log.Named("serve")

			go pollGPUStats(log)

			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Middleware(promhttp.Handler(), "/metrics"))
			mux.Handle("/healthz", metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ok"))
			}), "/healthz"))

			addr := state.cfg.Metrics.ListenAddress
			log.Info("Starting metrics server", zap.String("address", addr))
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Fatal("failed to start metrics server", zap.Error(err))
			}
			return nil
		},
	}
}

// pollGPUStats feeds nvidia-smi readings into the GPU gauges. On hosts
// without nvidia-smi the first poll returns nothing and the loop exits.
func pollGPUStats(log *zap.Logger) {
	for {
		stats, err := gpu.QueryNvidiaSMI(log)
		if err == nil && len(stats) == 0 {
			return
		}
		if err == nil {
			metrics.GPUUtilizationPercent.Set(float64(stats[0].UtilizationGPUPct))
			metrics.GPUMemoryUsedBytes.Set(float64(stats[0].MemoryUsedMB) * 1024 * 1024)
		}
		time.Sleep(gpuStatsPollInterval)
	}
}
