package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/concal/internal/domain/conflict"
	"github.com/okian/concal/internal/domain/model"
)

type conflictsResult struct {
	Conflicts map[int][]int `json:"conflicts" yaml:"conflicts"`
	Events    []model.Event `json:"events,omitempty" yaml:"events,omitempty"`
}

func newConflictsCmd(opts *globalOptions) *cobra.Command {
	var (
		candidates []int
		references []int
		annotate   bool
	)

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Report time overlaps between events",
		Long: "Checks every candidate event against the reference events and prints the overlapping ids. " +
			"References default to the candidates.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(candidates) == 0 {
				return fmt.Errorf("--ids is required")
			}
			if len(references) == 0 {
				references = candidates
			}
			cat, err := loadCatalog(cmd.Context(), opts)
			if err != nil {
				return err
			}
			records := cat.Records()
			found, err := conflict.Detect(records, candidates, references)
			if err != nil {
				return err
			}
			res := conflictsResult{Conflicts: found}
			if annotate {
				res.Events = conflict.Annotate(records, found, candidates)
			}
			return render(cmd.OutOrStdout(), opts.output, res, func(w io.Writer) error {
				return printConflicts(w, records, found)
			})
		},
	}

	cmd.Flags().IntSliceVar(&candidates, "ids", nil, "Candidate event ids (comma separated)")
	cmd.Flags().IntSliceVar(&references, "references", nil, "Reference event ids (default: the candidates)")
	cmd.Flags().BoolVar(&annotate, "annotate", false, "Include the annotated candidate events")
	return cmd
}

func printConflicts(w io.Writer, records []model.Event, found map[int][]int) error {
	ids := make([]int, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		ev := records[id]
		hits := make([]string, len(found[id]))
		for i, h := range found[id] {
			hits[i] = strconv.Itoa(h)
		}
		if _, err := fmt.Fprintf(w, "%d %s %s %s-%s: [%s]\n",
			id, ev.GameID, ev.StartDate, ev.StartTime, ev.EndTime, strings.Join(hits, " ")); err != nil {
			return err
		}
	}
	return nil
}
