package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeMissingOK bool

func init() {
	cmd := newRemoveCmd()
	cmd.Flags().BoolVar(&removeMissingOK, "missing-ok", false, "Succeed when a resource or file is already absent")
	rootCmd.AddCommand(cmd)
}

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <spec>...",
		Short: "Remove resources or files",
		Long: `The remove command deletes every given resource or file. Nothing is
committed if any removal fails.

Example:
  resupdate remove "app.exe|ICON|1" "app.exe|GROUP_ICON|MAINICON"
  resupdate remove "app.res|RCDATA|7" --missing-ok`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(args)
		},
	}
	return cmd
}

func runRemove(args []string) error {
	s := newSession(removeMissingOK, nil)
	for _, target := range args {
		printVerbose("Removing %s\n", target)
		if err := s.router.Remove(target); err != nil {
			return fmt.Errorf("failed to remove %s: %w", target, err)
		}
	}
	if err := s.commit(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"removed": args,
			"written": s.writtenJSON(),
		})
	}
	printInfo("✓ Removed %d item(s)\n", len(args))
	return nil
}
