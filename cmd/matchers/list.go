package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/praetorian-inc/matchers/pkg/registry"
	"github.com/praetorian-inc/matchers/pkg/types"
	"github.com/spf13/cobra"
)

var (
	listFormat  string
	listRequire string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available matchers",
	Long:  "Display every registered matcher in preference order with its characteristics",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format: table, json")
	listCmd.Flags().StringVar(&listRequire, "require", "", "Mark the matcher a requirement would select")
}

func runList(cmd *cobra.Command, args []string) error {
	reg, err := buildRegistry(newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	selected := reg.Default().Name()
	if listRequire != "" {
		pred, err := registry.ParseRequirement(listRequire)
		if err != nil {
			return err
		}
		selected = registry.Select(reg, pred).Name()
	}

	descs := make([]types.Descriptor, 0, reg.Len())
	for _, e := range reg.All() {
		descs = append(descs, e.Descriptor)
	}

	switch listFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(descs)
	case "table":
		return outputListTable(cmd.OutOrStdout(), descs, selected)
	default:
		return fmt.Errorf("unknown output format: %s", listFormat)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func outputListTable(out io.Writer, descs []types.Descriptor, selected string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, " \tName\tCharacteristics\tDescription\n")
	fmt.Fprintf(w, " \t----\t---------------\t-----------\n")

	for _, d := range descs {
		mark := " "
		if d.Name == selected {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, d.Name, d.Characteristics.String(), d.Description)
	}

	return nil
}
