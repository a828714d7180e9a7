package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

var (
	addOverwrite string
	addVersion   uint32
)

func init() {
	cmd := newAddCmd()
	cmd.Flags().StringVar(&addOverwrite, "overwrite", "", "Overwrite policy: always, never, only, if-larger, if-newer (default from config, else always)")
	cmd.Flags().Uint32Var(&addVersion, "res-version", 0, "Version stored with the resource and compared by --overwrite if-newer")
	rootCmd.AddCommand(cmd)
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <dst-spec> <src-spec>",
		Short: "Store data from a file or resource at a destination",
		Long: `The add command reads <src-spec> and stores the bytes at <dst-spec>.

Example:
  resupdate add "app.exe|BITMAP|100|1033" logo.bmp
  resupdate add "app.exe|RT_MANIFEST|1" app.manifest --overwrite only
  resupdate add "out.res|RCDATA|CONFIG" config.bin --overwrite if-newer --res-version 3
  resupdate add "new.exe|ICON|1" "old.exe|ICON|1"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(args)
		},
	}
	return cmd
}

func runAdd(args []string) error {
	dst := args[0]
	src := args[1]

	policy, err := resolveOverwrite(addOverwrite)
	if err != nil {
		return err
	}

	s := newSession(false, nil)
	printVerbose("Adding %s from %s (overwrite %s)\n", dst, src, policy)
	if err := s.router.Copy(src, dst, types.AddOptions{Overwrite: policy, Version: addVersion}); err != nil {
		return fmt.Errorf("failed to add %s: %w", dst, err)
	}
	if err := s.commit(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"added":     dst,
			"from":      src,
			"overwrite": policy.String(),
			"written":   s.writtenJSON(),
		})
	}
	printInfo("✓ Added %s\n", dst)
	return nil
}
