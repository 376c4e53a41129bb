// Package main provides catalog-tool, a command line companion to the
// catalog service: it inspects exports offline, generates sample data and
// checks a running service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/concal/pkg/logger"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := logger.InitWith(os.Stderr, logger.FormatText); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:           "catalog-tool",
		Short:         "Inspect convention event exports and the catalog service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.file, "file", "f", "", "Event export to load (csv, json, sheet json; .gz/.zst allowed)")
	pf.StringVar(&opts.format, "format", "auto", "Export format (auto, csv, json, sheet)")
	pf.StringVar(&opts.timezone, "timezone", defaultTimezone, "Timezone of export timestamps")
	pf.BoolVar(&opts.strict, "strict", false, "Fail on the first malformed row instead of skipping it")
	pf.StringVarP(&opts.output, "output", "o", outputText, "Output format (text, json, yaml)")

	rootCmd.AddCommand(
		newFacetsCmd(&opts),
		newDaysCmd(&opts),
		newConflictsCmd(&opts),
		newExportCmd(&opts),
		newGenerateCmd(),
		newVerifyCmd(&opts),
	)
	return rootCmd
}
