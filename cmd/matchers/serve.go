package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/praetorian-inc/matchers/pkg/search"
	"github.com/praetorian-inc/matchers/pkg/serve"
	"github.com/praetorian-inc/matchers/pkg/store"
	"github.com/spf13/cobra"
)

var serveDatastore string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming NDJSON server",
	Long: `Run Matchers as a long-lived streaming server that accepts match requests
via stdin and writes results to stdout using NDJSON format.

The registry is built once at startup and requests are processed until
stdin closes, a close request arrives, or SIGTERM is received.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveDatastore, "datastore", "", "Record searches in this history database")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())

	reg, err := buildRegistry(logger)
	if err != nil {
		return err
	}

	var s store.Store
	if serveDatastore != "" {
		s, err = store.New(store.Config{Path: serveDatastore})
		if err != nil {
			return fmt.Errorf("opening datastore: %w", err)
		}
	}

	core, err := search.NewCore(search.Config{Registry: reg, Store: s, Logger: logger})
	if err != nil {
		return err
	}
	defer core.Close()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			logger.Info("received signal, shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := serve.NewServer(core, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
