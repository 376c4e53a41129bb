package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/concal/internal/sampledata"
	"github.com/okian/concal/pkg/logger"
)

func newVerifyCmd(opts *globalOptions) *cobra.Command {
	var cfg sampledata.VerifyConfig

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a running catalog service for consistency",
		Long: "Compares every facet label count against the filtered event total " +
			"and checks that reported conflicts are symmetric.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validateOutput(); err != nil {
				return err
			}
			if cfg.Verbose {
				_ = logger.SetLevelString("debug")
			}
			stats, err := sampledata.Verify(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, stats, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "ok: %d events, %d facet labels, %d conflict probes in %s\n",
					stats.Events, stats.FacetsChecked, stats.ConflictsProbed, stats.Duration.Round(time.Millisecond))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:8080", "Base URL of the service")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 4, "Concurrent checks")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", sampledata.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Log every verified label")
	return cmd
}
