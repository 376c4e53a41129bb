package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/okian/concal/internal/adapters/calendar"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var (
		ids  []int
		out  string
		name string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write events as an iCalendar file",
		Long:  "Exports the selected events (every event by default) as an iCalendar document.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := loadCatalog(cmd.Context(), opts)
			if err != nil {
				return err
			}
			loc, err := opts.location()
			if err != nil {
				return err
			}
			events := cat.Records()
			if len(ids) > 0 {
				slices.Sort(ids)
				ids = slices.Compact(ids)
				for _, id := range ids {
					if _, ok := cat.Event(id); !ok {
						return fmt.Errorf("unknown event id %d", id)
					}
				}
				events = cat.Events(ids)
			}

			calOpts := []calendar.Option{calendar.WithLocation(loc)}
			if name != "" {
				calOpts = append(calOpts, calendar.WithName(name))
			}
			exp := calendar.New(calOpts...)

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			return exp.Write(w, events)
		},
	}

	cmd.Flags().IntSliceVar(&ids, "ids", nil, "Event ids to export (default: all)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&name, "name", "", "Calendar name")
	return cmd
}
