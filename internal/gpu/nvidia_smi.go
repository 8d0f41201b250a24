package gpu

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// SMIStat holds one GPU's stats as reported by nvidia-smi.
type SMIStat struct {
	Name              string `json:"name"`
	DriverVersion     string `json:"driver_version"`
	MemoryTotalMB     int    `json:"memory_total_mb"`
	MemoryUsedMB      int    `json:"memory_used_mb"`
	MemoryFreeMB      int    `json:"memory_free_mb"`
	UtilizationGPUPct int    `json:"utilization_gpu_pct"`
	UtilizationMemPct int    `json:"utilization_mem_pct"`
}

// QueryNvidiaSMI polls per-GPU stats using nvidia-smi. A missing
// nvidia-smi binary returns an empty slice rather than an error so
// callers on GPU-less hosts degrade gracefully.
func QueryNvidiaSMI(log *zap.Logger) ([]SMIStat, error) {
	cmd := exec.Command("nvidia-smi",
		"--query-gpu=name,driver_version,memory.total,memory.used,memory.free,utilization.gpu,utilization.memory",
		"--format=csv,noheader,nounits")
	output, err := cmd.Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			log.Warn("nvidia-smi not found, skipping GPU stats poll")
			return nil, nil
		}
		log.Error("nvidia-smi failed", zap.Error(err))
		return nil, err
	}

	var stats []SMIStat
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line == "" {
			continue
		}
		values := strings.Split(line, ", ")
		if len(values) < 7 {
			return nil, fmt.Errorf("unexpected nvidia-smi output: %q", line)
		}
		stats = append(stats, SMIStat{
			Name:              values[0],
			DriverVersion:     values[1],
			MemoryTotalMB:     atoiOrZero(values[2]),
			MemoryUsedMB:      atoiOrZero(values[3]),
			MemoryFreeMB:      atoiOrZero(values[4]),
			UtilizationGPUPct: atoiOrZero(values[5]),
			UtilizationMemPct: atoiOrZero(values[6]),
		})
	}

	log.Debug("polled GPU stats", zap.Int("gpus", len(stats)))
	return stats, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
