package main

import (
	"fmt"

	"github.com/gputools/tritonrun/internal/cache"
	"github.com/urfave/cli/v2"
)

func listCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List kernels present in the compiler cache",
		Action: func(c *cli.Context) error {
			kc := cache.New(state.cfg.Cache.Dir, state.log)
			names, err := kc.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Printf("no kernels found under %s\n", kc.Dir())
				return nil
			}

			fmt.Printf("kernel cache: %s\n\n", kc.Dir())
			for _, name := range names {
				k := kc.Kernel(name)
				meta, err := k.Metadata()
				if err != nil {
					fmt.Printf("%-24s (metadata error: %v)\n", name, err)
					continue
				}
				fmt.Printf("%-24s symbol=%s target=%s warps=%d\n",
					name, meta.Name, meta.TargetString(), meta.NumWarps)

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
						fmt.Printf("  %-6s %s  %s\n", ext, fp, p)
					}
				}
			}
			return nil
		},
	}
}
