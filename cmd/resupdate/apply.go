package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

var applyDryRun bool

func init() {
	cmd := newApplyCmd()
	cmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Run the operations against an in-memory copy of the files involved; nothing on disk changes")
	rootCmd.AddCommand(cmd)
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <manifest.yaml>",
		Short: "Run a batch of operations from a YAML manifest",
		Long: `The apply command runs every operation of a manifest in order against
one shared set of containers, then commits once. Processing stops at the
first failing operation and nothing is committed.

Relative paths in the manifest are resolved against its directory. With
--dry-run every operation runs against an in-memory copy of the files the
manifest names, and the containers that would be written are listed.

Example manifest:
  overwrite: always
  operations:
    - add: app.exe|BITMAP|100|1033
      from: logo.bmp
      overwrite: never
    - remove: app.exe|ICON|1
    - get: app.exe|VERSION|1
      to: version.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(args)
		},
	}
	return cmd
}

type applyResult struct {
	Operations int           `json:"operations"`
	DryRun     bool          `json:"dry_run"`
	Pending    []string      `json:"pending,omitempty"`
	Written    []writtenJSON `json:"written"`
}

func runApply(args []string) error {
	m, err := LoadManifest(args[0])
	if err != nil {
		return err
	}
	fallback, err := resolveOverwrite("")
	if err != nil {
		return err
	}

	var fsys afero.Fs
	if applyDryRun {
		if fsys, err = stageFs(m); err != nil {
			return err
		}
	}

	s := newSession(m.MissingOK, fsys)
	for i, op := range m.Operations {
		if err := applyOne(s, m, op, fallback); err != nil {
			return fmt.Errorf("operation %d: %w", i+1, err)
		}
	}

	result := applyResult{Operations: len(m.Operations), DryRun: applyDryRun}
	if applyDryRun {
		result.Pending = s.router.Dirty()
		for _, p := range result.Pending {
			printVerbose("Would write %s\n", p)
		}
	} else if err := s.commit(); err != nil {
		return err
	}
	result.Written = s.writtenJSON()

	if jsonOut {
		return printJSON(result)
	}
	if applyDryRun {
		printInfo("✓ Ran %d operation(s); %d container(s) would be written\n", result.Operations, len(result.Pending))
		return nil
	}
	printInfo("✓ Applied %d operation(s); %d container(s) written\n", result.Operations, len(result.Written))
	return nil
}

func applyOne(s *session, m *Manifest, op Operation, fallback types.Overwrite) error {
	kind, err := op.kind()
	if err != nil {
		return err
	}
	switch kind {
	case opAdd:
		printVerbose("add %s from %s\n", op.Add, op.From)
		return s.router.Copy(op.From, op.Add, types.AddOptions{Overwrite: m.policy(op, fallback), Version: op.Version})
	case opGet:
		printVerbose("get %s to %s\n", op.Get, op.To)
		return s.router.Copy(op.Get, op.To, types.AddOptions{})
	default:
		printVerbose("remove %s\n", op.Remove)
		return s.router.Remove(op.Remove)
	}
}
