package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/praetorian-inc/matchers/pkg/enum"
	"github.com/praetorian-inc/matchers/pkg/search"
	"github.com/praetorian-inc/matchers/pkg/store"
	"github.com/praetorian-inc/matchers/pkg/types"
	"github.com/spf13/cobra"
)

var (
	scanAlgorithm     string
	scanRequire       string
	scanPrefilter     bool
	scanFormat        string
	scanDatastore     string
	scanIncludeHidden bool
	scanIncludeBinary bool
	scanMaxFileSize   int64
	scanShowMisses    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <path> <needle>",
	Short: "Search every file below a path",
	Long: `Search each file below path for needle. Hidden and binary files are skipped
unless requested, and the root's .gitignore is honored.`,
	Args: cobra.ExactArgs(2),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanAlgorithm, "algorithm", "", "Matcher name (default: selected by --require, else the default matcher)")
	scanCmd.Flags().StringVar(&scanRequire, "require", "", "Select the first matcher with these characteristics, e.g. fast,!experimental")
	scanCmd.Flags().BoolVar(&scanPrefilter, "prefilter", false, "Skip the matcher when an Aho-Corasick scan finds no occurrence")
	scanCmd.Flags().StringVar(&scanFormat, "format", "human", "Output format: human, json, sarif")
	scanCmd.Flags().StringVar(&scanDatastore, "datastore", "", "Record searches in this history database")
	scanCmd.Flags().BoolVar(&scanIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	scanCmd.Flags().BoolVar(&scanIncludeBinary, "include-binary", false, "Include binary files")
	scanCmd.Flags().Int64Var(&scanMaxFileSize, "max-file-size", 10*1024*1024, "Skip files larger than this many bytes (0 for no limit)")
	scanCmd.Flags().BoolVar(&scanShowMisses, "show-misses", false, "Also report files without a match")
}

func runScan(cmd *cobra.Command, args []string) error {
	root, needle := args[0], []byte(args[1])
	if err := checkOutputFormat(scanFormat); err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())

	reg, err := buildRegistry(logger)
	if err != nil {
		return err
	}

	var s store.Store
	if scanDatastore != "" {
		s, err = store.New(store.Config{Path: scanDatastore})
		if err != nil {
			return fmt.Errorf("opening datastore: %w", err)
		}
	}

	core, err := search.NewCore(search.Config{Registry: reg, Store: s, Logger: logger})
	if err != nil {
		return err
	}
	defer core.Close()

	// Resolve once so a bad --require fails before any file is read.
	entry, err := core.Resolve(search.Request{Algorithm: scanAlgorithm, Require: scanRequire})
	if err != nil {
		return err
	}
	logger.Debug("scanning", "root", root, "matcher", entry.Name())

	ctx := commandContext(cmd)
	enumerator := enum.NewFilesystemEnumerator(enum.Config{
		Root:          root,
		IncludeHidden: scanIncludeHidden,
		IncludeBinary: scanIncludeBinary,
		MaxFileSize:   scanMaxFileSize,
	})

	var mu sync.Mutex
	batch := &search.BatchResult{Results: []search.Result{}}
	err = enumerator.Enumerate(ctx, func(content []byte, id types.HaystackID, path string) error {
		result, err := core.Search(ctx, search.Request{
			Haystack:  content,
			Needle:    needle,
			Algorithm: entry.Name(),
			Prefilter: scanPrefilter,
			Source:    path,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		logger.Debug("searched file", "path", path, "haystack_id", id.Hex(), "matches", len(result.Offsets))

		if len(result.Offsets) == 0 && !scanShowMisses {
			return nil
		}

		mu.Lock()
		defer mu.Unlock()
		batch.Results = append(batch.Results, *result)
		batch.Total += len(result.Offsets)
		return nil
	})
	if err != nil {
		return err
	}

	sort.Slice(batch.Results, func(i, j int) bool {
		return batch.Results[i].Source < batch.Results[j].Source
	})

	switch scanFormat {
	case "human":
		return outputScanHuman(cmd.OutOrStdout(), entry.Name(), batch)
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(batch)
	case "sarif":
		return outputSARIF(cmd.OutOrStdout(), reg, batch.Results)
	default:
		return fmt.Errorf("unknown output format: %s", scanFormat)
	}
}

func outputScanHuman(out io.Writer, matcherName string, batch *search.BatchResult) error {
	s := newStyles(colorEnabled())

	if !quiet {
		fmt.Fprintf(out, "Using '%s'.\n", s.matcher.Sprint(matcherName))
	}

	if len(batch.Results) == 0 {
		fmt.Fprintln(out, s.heading.Sprint(formatOffsets(nil)))
		return nil
	}

	for _, r := range batch.Results {
		fmt.Fprintf(out, "%s: %s\n", s.heading.Sprint(r.Source), formatOffsets(r.Offsets))
	}
	return nil
}
