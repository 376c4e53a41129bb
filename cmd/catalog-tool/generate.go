package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/concal/internal/adapters/ingest"
	"github.com/okian/concal/internal/domain/model"
	"github.com/okian/concal/internal/domain/normalize"
	"github.com/okian/concal/internal/sampledata"
)

var generateLayouts = []string{"csv", "json", "sheet"}

type generateFlags struct {
	events    int
	days      int
	start     string
	seed      uint64
	malformed int
	layout    string
	out       string
}

func newGenerateCmd() *cobra.Command {
	var flags generateFlags
	def := sampledata.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic event export",
		Long: "Writes a reproducible synthetic export as CSV, a JSON array of label-keyed rows, " +
			"or a column-keyed sheet dump. Output files ending in .gz or .zst are compressed.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().IntVarP(&flags.events, "events", "n", def.Events, "Number of events")
	cmd.Flags().IntVar(&flags.days, "days", def.Days, "Convention days")
	cmd.Flags().StringVar(&flags.start, "start", def.Start.Format(normalize.DateLayout), "First convention day")
	cmd.Flags().Uint64Var(&flags.seed, "seed", def.Seed, "Random seed")
	cmd.Flags().IntVar(&flags.malformed, "malformed-every", 0, "Make every n-th row unparseable (0 disables)")
	cmd.Flags().StringVar(&flags.layout, "layout", "csv", "Output layout (csv, json, sheet)")
	cmd.Flags().StringVar(&flags.out, "out", "", "Output file (default: stdout)")
	return cmd
}

func runGenerate(stdout io.Writer, flags generateFlags) error {
	if !slices.Contains(generateLayouts, flags.layout) {
		return fmt.Errorf("invalid layout %q, valid layouts: %v", flags.layout, generateLayouts)
	}
	if flags.events < 0 || flags.days < 1 {
		return fmt.Errorf("events must be >= 0 and days >= 1")
	}
	start, err := time.Parse(normalize.DateLayout, flags.start)
	if err != nil {
		return fmt.Errorf("start %q: %w", flags.start, err)
	}

	cfg := sampledata.Config{
		Events:         flags.events,
		Days:           flags.days,
		Start:          start,
		Seed:           flags.seed,
		MalformedEvery: flags.malformed,
	}
	rows := sampledata.Generate(cfg)

	w := stdout
	if flags.out != "" {
		f, err := os.Create(flags.out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flags.out, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	zw, err := ingest.Compress(w, flags.out)
	if err != nil {
		return err
	}
	if err := writeRows(zw, flags.layout, rows); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

func writeRows(w io.Writer, layout string, rows []model.RawRow) error {
	switch layout {
	case "json":
		return json.NewEncoder(w).Encode(rows)
	case "sheet":
		return json.NewEncoder(w).Encode(sampledata.Sheet(rows))
	default:
		return sampledata.WriteCSV(w, rows)
	}
}
