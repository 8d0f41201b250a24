package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/gputools/tritonrun/internal/cache"
	"github.com/gputools/tritonrun/internal/gpu"
	"github.com/gputools/tritonrun/internal/launcher"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func runCommand(state *appState) *cli.Command {
	var symbol string
	var aFlag, bFlag string

	return &cli.Command{
		Name:      "run",
		Usage:     "Launch a cached kernel and verify the result against the CPU expectation",
		ArgsUsage: "[kernel]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "symbol",
				Usage:       "Mangled kernel symbol (defaults to the one recorded in the metadata sidecar)",
				Destination: &symbol,
			},
			&cli.StringFlag{
				Name:        "a",
				Value:       "1,2,3",
				Usage:       "First input vector, comma separated",
				Destination: &aFlag,
			},
			&cli.StringFlag{
				Name:        "b",
				Value:       "4,5,6",
				Usage:       "Second input vector, comma separated",
				Destination: &bFlag,
			},
		},
		Action: func(c *cli.Context) error {
			kernelName := "add_kernel"
			if c.NArg() > 0 {
				kernelName = c.Args().First()
			}

			a, err := parseVector(aFlag)
			if err != nil {
				return fmt.Errorf("flag -a: %w", err)
			}
			b, err := parseVector(bFlag)
			if err != nil {
				return fmt.Errorf("flag -b: %w", err)
			}

			figure.NewFigure("tritonrun", "", true).Print()
			fmt.Println("")

			manager, err := gpu.NewManager(state.log, state.cfg.Device.Index)
			if err != nil {
				return err
			}
			defer manager.Cleanup()

			info := manager.GetDeviceInfo()
			state.log.Info("backend selected",
				zap.String("backend", manager.GetBackendType()),
				zap.String("device", info.Name),
				zap.String("compute_capability", info.ComputeCapability))

			kc := cache.New(state.cfg.Cache.Dir, state.log)
			l := launcher.New(kc, manager, state.log, state.cfg.Launch.Tolerance)

			res, err := l.RunVectorAdd(kernelName, symbol, a, b)
			if err != nil {
				return err
			}

			fmt.Printf("kernel:   %s (%s)\n", res.Kernel, res.Symbol)
			fmt.Printf("backend:  %s\n", res.Backend)
			fmt.Printf("artifact: %s\n", res.Artifact)
			fmt.Printf("a:        %v\n", a)
			fmt.Printf("b:        %v\n", b)
			fmt.Printf("a + b:    %v\n", res.Output)
			fmt.Printf("elapsed:  %s\n", res.Elapsed)

			if err := l.Verify(res, a, b); err != nil {
				return err
			}
			fmt.Println("verification: PASS")
			return nil
		},
	}
}

func parseVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	out := make([]float32, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid element %q", p)
		}
		out = append(out, float32(v))
	}
	return out, nil
}
