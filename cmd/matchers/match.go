package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/praetorian-inc/matchers/pkg/registry"
	"github.com/praetorian-inc/matchers/pkg/sarif"
	"github.com/praetorian-inc/matchers/pkg/search"
	"github.com/praetorian-inc/matchers/pkg/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	matchRequire      string
	matchPrefilter    bool
	matchHaystackFile string
	matchFormat       string
	matchDatastore    string
	matchColor        string
)

func init() {
	rootCmd.Flags().StringVar(&matchRequire, "require", "", "Select the first matcher with these characteristics, e.g. fast,!experimental")
	rootCmd.Flags().BoolVar(&matchPrefilter, "prefilter", false, "Skip the matcher when an Aho-Corasick scan finds no occurrence")
	rootCmd.Flags().StringVar(&matchHaystackFile, "haystack-file", "", "Read the haystack from a file ('-' for stdin) instead of an argument")
	rootCmd.Flags().StringVar(&matchFormat, "format", "human", "Output format: human, json, sarif")
	rootCmd.Flags().StringVar(&matchDatastore, "datastore", "", "Record the search in this history database")
	rootCmd.Flags().StringVar(&matchColor, "color", "auto", "Color output: auto, always, never")
}

// styles holds color formatters for human output
type styles struct {
	matcher *color.Color
	heading *color.Color
	offset  *color.Color
}

// newStyles creates color formatters; enabled=false disables all color.
func newStyles(enabled bool) *styles {
	s := &styles{
		matcher: color.New(color.Bold, color.FgHiBlue),
		heading: color.New(color.Bold),
		offset:  color.New(color.FgHiGreen),
	}

	for _, c := range []*color.Color{s.matcher, s.heading, s.offset} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return s
}

// matchArgs accepts [algorithm] <haystack> <needle>, or [algorithm] <needle>
// when the haystack comes from --haystack-file.
func matchArgs(cmd *cobra.Command, args []string) error {
	lo, hi := 2, 3
	if matchHaystackFile != "" {
		lo, hi = 1, 2
	}
	if len(args) < lo || len(args) > hi {
		if matchHaystackFile != "" {
			return fmt.Errorf("wrong number of arguments, expected: [algorithm] <needle>")
		}
		return fmt.Errorf("wrong number of arguments, expected: [algorithm] <haystack> <needle>")
	}
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	if err := matchArgs(cmd, args); err != nil {
		return err
	}
	if err := checkOutputFormat(matchFormat); err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())

	req, err := parseMatchRequest(cmd, args)
	if err != nil {
		return err
	}

	reg, err := buildRegistry(logger)
	if err != nil {
		return err
	}
	for _, e := range reg.All() {
		logger.Debug("found matcher", "name", e.Name(), "characteristics", e.Characteristics().String())
	}

	var s store.Store
	if matchDatastore != "" {
		s, err = store.New(store.Config{Path: matchDatastore})
		if err != nil {
			return fmt.Errorf("opening datastore: %w", err)
		}
	}

	core, err := search.NewCore(search.Config{Registry: reg, Store: s, Logger: logger})
	if err != nil {
		return err
	}
	defer core.Close()

	result, err := core.Search(commandContext(cmd), req)
	if err != nil {
		return err
	}

	switch matchFormat {
	case "human":
		return outputMatchHuman(cmd.OutOrStdout(), result)
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "sarif":
		return outputSARIF(cmd.OutOrStdout(), reg, []search.Result{*result})
	default:
		return fmt.Errorf("unknown output format: %s", matchFormat)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func parseMatchRequest(cmd *cobra.Command, args []string) (search.Request, error) {
	req := search.Request{
		Require:   matchRequire,
		Prefilter: matchPrefilter,
	}

	if matchHaystackFile != "" {
		haystack, err := readHaystack(cmd, matchHaystackFile)
		if err != nil {
			return req, err
		}
		req.Haystack = haystack
		req.Source = matchHaystackFile
		if len(args) == 2 {
			req.Algorithm = args[0]
		}
		req.Needle = []byte(args[len(args)-1])
		return req, nil
	}

	if len(args) == 3 {
		req.Algorithm = args[0]
		args = args[1:]
	}
	req.Haystack = []byte(args[0])
	req.Needle = []byte(args[1])
	return req, nil
}

func readHaystack(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading haystack: %w", err)
	}
	return data, nil
}

// checkOutputFormat rejects unknown --format values before anything is
// searched or recorded.
func checkOutputFormat(format string) error {
	switch format {
	case "human", "json", "sarif":
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func colorEnabled() bool {
	switch matchColor {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""
	}
}

// formatOffsets renders the result line for a list of match offsets.
func formatOffsets(offsets []int) string {
	switch len(offsets) {
	case 0:
		return "Found no match."
	case 1:
		return "Found matching position at index: " + strconv.Itoa(offsets[0])
	default:
		parts := make([]string, len(offsets))
		for i, off := range offsets {
			parts[i] = strconv.Itoa(off)
		}
		return "Found matching positions at indices: " + strings.Join(parts, ", ")
	}
}

func outputMatchHuman(out io.Writer, result *search.Result) error {
	s := newStyles(colorEnabled())

	if !quiet {
		fmt.Fprintf(out, "Using '%s'.\n", s.matcher.Sprint(result.Matcher))
	}

	switch len(result.Offsets) {
	case 0:
		fmt.Fprintln(out, s.heading.Sprint(formatOffsets(nil)))
	case 1:
		fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Found matching position at index:"), s.offset.Sprint(result.Offsets[0]))
	default:
		line := strings.TrimPrefix(formatOffsets(result.Offsets), "Found matching positions at indices: ")
		fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Found matching positions at indices:"), s.offset.Sprint(line))
	}
	return nil
}

// outputSARIF writes one SARIF run covering results, with a rule per matcher
// used.
func outputSARIF(out io.Writer, reg *registry.Registry, results []search.Result) error {
	sarif.ToolVersion = version
	report := sarif.NewReport()

	for _, result := range results {
		if entry, ok := reg.Lookup(result.Matcher); ok {
			report.AddMatcher(entry.Descriptor)
		}

		uri := result.Source
		if uri == "" || uri == "-" {
			uri = "haystack"
		}
		for _, occ := range result.Occurrences {
			report.AddResult(occ, result.Matcher, result.Needle, uri)
		}
	}

	jsonBytes, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("serializing SARIF: %w", err)
	}

	if _, err := out.Write(jsonBytes); err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(out)
	return err
}
