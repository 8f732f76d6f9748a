package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/praetorian-inc/matchers/pkg/store"
	"github.com/praetorian-inc/matchers/pkg/types"
	"github.com/spf13/cobra"
)

var (
	historyDatastore  string
	historyFormat     string
	historyHaystackID string
	historyLimit      int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded searches",
	Long:  "Read searches recorded with --datastore and list them oldest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDatastore, "datastore", "matchers.db", "Path to the history database")
	historyCmd.Flags().StringVar(&historyFormat, "format", "table", "Output format: table, json")
	historyCmd.Flags().StringVar(&historyHaystackID, "haystack-id", "", "Only show searches of the haystack with this ID")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Only show the most recent N searches (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyDatastore == store.MemoryPath {
		return fmt.Errorf("cannot read history from in-memory store")
	}
	if err := checkDatastore(historyDatastore); err != nil {
		return err
	}

	s, err := store.New(store.Config{Path: historyDatastore})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	var records []*types.SearchRecord
	if historyHaystackID != "" {
		id, err := types.ParseHaystackID(historyHaystackID)
		if err != nil {
			return err
		}
		records, err = s.GetSearchesByHaystack(id)
		if err != nil {
			return fmt.Errorf("retrieving searches: %w", err)
		}
	} else {
		records, err = s.GetSearches()
		if err != nil {
			return fmt.Errorf("retrieving searches: %w", err)
		}
	}

	if historyLimit > 0 && len(records) > historyLimit {
		records = records[len(records)-historyLimit:]
	}

	switch historyFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	case "table":
		return outputHistoryTable(cmd.OutOrStdout(), records)
	default:
		return fmt.Errorf("unknown output format: %s", historyFormat)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func outputHistoryTable(out io.Writer, records []*types.SearchRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(out, "No searches recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID\tTime\tMatcher\tHaystack\tSize\tNeedle\tMatches\n")
	fmt.Fprintf(w, "--\t----\t-------\t--------\t----\t------\t-------\n")

	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%q\t%d\n",
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			r.Matcher,
			r.HaystackID.Hex()[:12],
			humanize.Bytes(uint64(r.HaystackSize)),
			r.Needle,
			len(r.Offsets),
		)
	}

	return nil
}

// checkDatastore rejects local database paths that do not exist, so reading
// history never creates an empty database.
func checkDatastore(path string) error {
	if store.IsPostgresURL(path) {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("datastore not found: %s", path)
	}
	return nil
}
