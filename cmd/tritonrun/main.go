package main

import (
	"fmt"
	"os"

	"github.com/gputools/tritonrun/internal/config"
	"github.com/gputools/tritonrun/internal/logger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// appState carries the config and logger resolved in the Before hook to
// the command actions.
type appState struct {
	cfg *config.Config
	log *zap.Logger
}

func main() {
	var configPath string
	var cacheDir string
	state := &appState{}

	app := &cli.App{
		Name:  "tritonrun",
		Usage: "Locate, inspect and launch Triton-compiled GPU kernels",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Value:       config.GetDefaultConfigPath(),
				Usage:       "Path to the tritonrun config file",
				EnvVars:     []string{"TRITONRUN_CONFIG"},
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "cache-dir",
				Usage:       "Kernel cache directory (overrides config and TRITON_CACHE_DIR)",
				Destination: &cacheDir,
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(configPath)
			if os.IsNotExist(err) {
				cfg = config.DefaultConfig()
			} else if err != nil {
				return err
			}
			if cacheDir != "" {
				cfg.Cache.Dir = cacheDir
			}
			zapLogger, err := logger.New(cfg.Logger.Verbosity)
			if err != nil {
				return err
			}
			state.cfg = cfg
			state.log = zapLogger.Named("cli")
			return nil
		},
		Commands: []*cli.Command{
			listCommand(state),
			infoCommand(state),
			runCommand(state),
			serveCommand(state),
		},
	}

	if err := app.Run(os.Args); err != nil {
		if state.log != nil {
			state.log.Fatal("failed to run app", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}
