package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/concal/internal/domain/facet"
	"github.com/okian/concal/internal/domain/types"
)

func newFacetsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "facets [name...]",
		Short: "List facet labels with event counts",
		Long:  "Loads the export and prints every label of the named facets (all facets by default).",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]facet.Name, 0, len(args))
			for _, a := range args {
				n, ok := facet.Parse(a)
				if !ok {
					return fmt.Errorf("unknown facet %q, valid facets: %v", a, facet.All())
				}
				names = append(names, n)
			}
			cat, err := loadCatalog(cmd.Context(), opts)
			if err != nil {
				return err
			}
			sums := facet.Summarize(cat.Indices(), names...)
			return render(cmd.OutOrStdout(), opts.output, sums, func(w io.Writer) error {
				return printFacets(w, sums)
			})
		},
	}
}

func printFacets(w io.Writer, sums []types.FacetSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range sums {
		if s.Flag {
			fmt.Fprintf(tw, "%s\t\t%d\n", s.Name, s.Count)
			continue
		}
		fmt.Fprintf(tw, "%s\t\t%d labels\n", s.Name, len(s.Labels))
		for _, l := range s.Labels {
			fmt.Fprintf(tw, "\t%s\t%d\n", l.Label, l.Count)
		}
	}
	return tw.Flush()
}

func newDaysCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "days",
		Short: "List convention days with their first and last start times",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := loadCatalog(cmd.Context(), opts)
			if err != nil {
				return err
			}
			days := make([]types.DayInfo, 0, len(cat.Days()))
			for _, d := range cat.Days() {
				days = append(days, types.DayInfo{
					Date: d.Date, Events: d.Events, EarliestTime: d.EarliestTime, LatestTime: d.LatestTime,
				})
			}
			return render(cmd.OutOrStdout(), opts.output, days, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				for _, d := range days {
					fmt.Fprintf(tw, "%s\t%d events\t%s-%s\n", d.Date, d.Events, d.EarliestTime, d.LatestTime)
				}
				return tw.Flush()
			})
		},
	}
}
