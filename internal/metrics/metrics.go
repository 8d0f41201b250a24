package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EndpointResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "endpoint_responses_total",
		Help: "The total number of endpoint responses",
	}, []string{"endpoint", "status_code"})

	// Kernel Cache Metrics
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kernel_cache_lookups_total",
		Help: "Total number of kernel cache artifact lookups",
	}, []string{"ext", "result"})

	// Kernel Launch Metrics
	LaunchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kernel_launch_duration_ms",
		Help:    "Duration of a kernel module load plus launch in milliseconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 16), // 0.1ms to ~3.3s
	})

	Launches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kernel_launches_total",
		Help: "Total number of kernel launches by backend",
	}, []string{"backend"})

	VerificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kernel_verification_failures_total",
		Help: "Total number of device results that did not match the CPU expectation",
	})

	// GPU Metrics
	GPUMemoryUsedBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gpu_memory_used_bytes",
		Help: "GPU memory currently in use in bytes",
	})

	GPUUtilizationPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gpu_utilization_percent",
		Help: "Current GPU utilization percentage (0-100)",
	})
)
