package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/praetorian-inc/matchers/pkg/catalog"
	"github.com/praetorian-inc/matchers/pkg/registry"
	"github.com/spf13/cobra"
)

var (
	verbose         bool
	quiet           bool
	catalogPath     string
	includeMatchers string
	excludeMatchers string
)

var rootCmd = &cobra.Command{
	Use:   "matchers [flags] [algorithm] <haystack> <needle>",
	Short: "Matchers - find every occurrence of a needle in a haystack",
	Long: `Matchers finds all start offsets of a needle in a haystack with one of several
exact string-matching algorithms (brute force, Knuth-Morris-Pratt, Rabin-Karp, ...).

The algorithm is chosen by name, or by required characteristics with --require.
Unknown names fall back to the brute-force default.`,
	Args:         matchArgs,
	RunE:         runMatch,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Path to a matcher catalog YAML file (default: builtin)")
	rootCmd.PersistentFlags().StringVar(&includeMatchers, "include-matchers", "", "Only register matchers whose names match these regexes (comma-separated)")
	rootCmd.PersistentFlags().StringVar(&excludeMatchers, "exclude-matchers", "", "Do not register matchers whose names match these regexes (comma-separated)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// =============================================================================
// HELPERS
// =============================================================================

// newLogger writes leveled text logs to w: debug with -v, errors only with
// -q, warnings otherwise.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// buildRegistry builds the registry from --catalog, or the builtin catalog,
// restricted by --include-matchers and --exclude-matchers. The brute-force
// default is registered regardless of the filters.
func buildRegistry(logger *slog.Logger) (*registry.Registry, error) {
	var cat *catalog.Catalog
	var err error
	if catalogPath == "" {
		cat, err = catalog.LoadBuiltin()
	} else {
		cat, err = catalog.LoadFile(catalogPath)
		if err == nil {
			logger.Debug("loaded catalog", "path", catalogPath, "matchers", len(cat.Matchers))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	if includeMatchers != "" || excludeMatchers != "" {
		cat, err = catalog.Filter(cat, catalog.FilterConfig{
			Include: catalog.ParsePatterns(includeMatchers),
			Exclude: catalog.ParsePatterns(excludeMatchers),
		})
		if err != nil {
			return nil, fmt.Errorf("filtering catalog: %w", err)
		}
	}

	return catalog.Build(cat, catalog.BuildOptions{Logger: logger})
}
