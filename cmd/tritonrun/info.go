package main

import (
	"fmt"

	"github.com/gputools/tritonrun/internal/cache"
	"github.com/gputools/tritonrun/internal/gpu"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func infoCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Show metadata and artifacts for one cached kernel",
		ArgsUsage: "<kernel>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one kernel name")
			}
			name := c.Args().First()

			kc := cache.New(state.cfg.Cache.Dir, state.log)
			k := kc.Kernel(name)

			meta, err := k.Metadata()
			if err != nil {
				return err
			}

			fmt.Printf("kernel:        %s\n", name)
			fmt.Printf("symbol:        %s\n", meta.Name)
			fmt.Printf("target:        %s\n", meta.TargetString())
			fmt.Printf("num_warps:     %d (%d threads)\n", meta.NumWarps, meta.NumThreads())
			fmt.Printf("num_ctas:      %d\n", meta.NumCTAs)
			fmt.Printf("num_stages:    %d\n", meta.NumStages)
			fmt.Printf("cluster_dims:  %v\n", meta.ClusterDims)
			if meta.PTXVersion != nil {
				fmt.Printf("ptx_version:   %d\n", *meta.PTXVersion)
			}
			fmt.Printf("shared_mem:    %d bytes\n", meta.SharedMem)

			for _, ext := range []string{"cubin", "ptx"} {
				paths, err := kc.FindExt(name, ext)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fp, err := cache.Fingerprint(p)
					if err != nil {
						return err
					}
					fmt.Printf("%-6s         %s  %s\n", ext+":", fp, p)
				}
			}

			stats, err := gpu.QueryNvidiaSMI(state.log)
			if err != nil {
				state.log.Warn("could not poll GPU stats", zap.Error(err))
			}
			for i, s := range stats {
				fmt.Printf("gpu %d:         %s (driver %s, %d/%d MB used)\n",
					i, s.Name, s.DriverVersion, s.MemoryUsedMB, s.MemoryTotalMB)
			}
			return nil
		},
	}
}
