package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <container>",
		Short: "List the resources of a PE image or .res file",
		Long: `The list command prints every resource of a container in directory
order, one "type|name|language" spec per line followed by its size.

Example:
  resupdate list app.exe
  resupdate list app.res --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(args)
		},
	}
	return cmd
}

type entryJSON struct {
	Spec string `json:"spec"`
	Type string `json:"type"`
	Name string `json:"name"`
	Lang uint16 `json:"lang"`
	Size int    `json:"size"`
}

func runList(args []string) error {
	path := args[0]

	printVerbose("Opening container: %s\n", path)
	entries, err := newSession(false, nil).router.Entries(path)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", path, err)
	}

	if jsonOut {
		out := make([]entryJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, entryJSON{
				Spec: path + "|" + e.Key.String(),
				Type: e.Key.Type.TypeString(),
				Name: e.Key.Name.String(),
				Lang: e.Key.Lang,
				Size: e.Size,
			})
		}
		return printJSON(out)
	}

	for _, e := range entries {
		fmt.Printf("%-40s %10s\n", e.Key.String(), humanize.Bytes(uint64(e.Size)))
	}
	printVerbose("%d resource(s)\n", len(entries))
	return nil
}
