package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <src-spec> <dst-spec>",
		Short: "Extract a resource into a file or another container",
		Long: `The get command reads <src-spec> and writes the bytes to <dst-spec>,
replacing whatever is there.

Example:
  resupdate get "app.exe|VERSION|1" version.bin
  resupdate get "app.exe|ICON|1|1033" "app.res|ICON|1|1033"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	return cmd
}

func runGet(args []string) error {
	src := args[0]
	dst := args[1]

	s := newSession(false, nil)
	data, err := s.router.Get(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := s.router.Add(dst, data, types.AddOptions{}); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	if err := s.commit(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"from":    src,
			"to":      dst,
			"size":    len(data),
			"written": s.writtenJSON(),
		})
	}
	printInfo("✓ Extracted %s (%s) to %s\n", src, humanize.Bytes(uint64(len(data))), dst)
	return nil
}
