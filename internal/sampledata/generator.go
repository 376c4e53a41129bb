// Package sampledata generates synthetic event exports and verifies a
// running catalog service against them.
package sampledata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/okian/concal/internal/domain/model"
	"github.com/okian/concal/internal/domain/normalize"
)

// Generate returns cfg.Events label-keyed rows. Output depends only on cfg.
func Generate(cfg Config) []model.RawRow {
	if cfg.Events <= 0 {
		return nil
	}
	if cfg.Days <= 0 {
		cfg.Days = defaultDays
	}
	if cfg.Start.IsZero() {
		cfg.Start = DefaultConfig().Start
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	rows := make([]model.RawRow, cfg.Events)
	for i := range rows {
		rows[i] = generateRow(rng, cfg, i)
		if cfg.MalformedEvery > 0 && (i+1)%cfg.MalformedEvery == 0 {
			rows[i][normalize.LabelStart] = "not a date"
		}
	}
	return rows
}

func generateRow(rng *rand.Rand, cfg Config, i int) model.RawRow {
	day := cfg.Start.AddDate(0, 0, rng.IntN(cfg.Days))
	slots := (lastSlot-firstSlot)/slotMinutes + 1
	startMin := firstSlot + rng.IntN(slots)*slotMinutes
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, startMin, 0, 0, time.UTC)
	duration := pick(rng, durations)
	end := start.Add(time.Duration(duration * float64(time.Hour)))

	eventType := pick(rng, eventTypes)
	row := model.RawRow{
		normalize.LabelGameID:            fmt.Sprintf("%s24ND%05d", eventType[:3], i+1),
		normalize.LabelTitle:             fmt.Sprintf("%s Session %d", eventType[6:], i+1),
		normalize.LabelEventType:         eventType,
		normalize.LabelStart:             start.Format(timestampLayout),
		normalize.LabelEnd:               end.Format(timestampLayout),
		normalize.LabelDuration:          strconv.FormatFloat(duration, 'f', -1, 64),
		normalize.LabelAgeRequired:       pick(rng, ageRequirements),
		normalize.LabelExperience:        pick(rng, experience),
		normalize.LabelCost:              strconv.FormatFloat(pick(rng, costs), 'f', -1, 64),
		normalize.LabelTickets:           strconv.Itoa(rng.IntN(maxTickets + 1)),
		normalize.LabelGameSystem:        pick(rng, gameSystems),
		normalize.LabelGroup:             pick(rng, groups),
		normalize.LabelLocation:          pick(rng, locations),
		normalize.LabelRoom:              pick(rng, rooms),
		normalize.LabelMinPlayers:        strconv.Itoa(1 + rng.IntN(3)),
		normalize.LabelMaxPlayers:        strconv.Itoa(4 + rng.IntN(6)),
		normalize.LabelShortDescription:  "Generated event " + strconv.Itoa(i+1),
		normalize.LabelMaterialsRequired: "No",
		normalize.LabelTournament:        "No",
	}
	if rng.IntN(5) == 0 {
		row[normalize.LabelMaterialsRequired] = "Yes"
		row[normalize.LabelMaterialsDetails] = "Bring dice"
	}
	if rng.IntN(6) == 0 {
		row[normalize.LabelTournament] = "Yes"
		row[normalize.LabelRound] = strconv.Itoa(1 + rng.IntN(tournamentRounds))
		row[normalize.LabelTotalRounds] = strconv.Itoa(tournamentRounds)
	}
	if rng.IntN(3) == 0 {
		row[normalize.LabelTable] = strconv.Itoa(1 + rng.IntN(200))
	}
	return row
}

func pick[T any](rng *rand.Rand, xs []T) T {
	return xs[rng.IntN(len(xs))]
}

// Sheet converts label-keyed rows to the spreadsheet layout: a header row
// mapping column keys A..AF to labels, followed by the data rows keyed by
// column.
func Sheet(rows []model.RawRow) []model.RawRow {
	keys := make([]string, len(normalize.KnownLabels))
	header := make(model.RawRow, len(keys))
	for i, label := range normalize.KnownLabels {
		keys[i] = normalize.ColumnKey(i)
		header[keys[i]] = label
	}
	out := make([]model.RawRow, 0, len(rows)+1)
	out = append(out, header)
	for _, r := range rows {
		sr := make(model.RawRow, len(r))
		for i, label := range normalize.KnownLabels {
			if v, ok := r[label]; ok {
				sr[keys[i]] = v
			}
		}
		out = append(out, sr)
	}
	return out
}

// WriteCSV writes rows with a header line of every known label.
func WriteCSV(w io.Writer, rows []model.RawRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(normalize.KnownLabels); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	record := make([]string, len(normalize.KnownLabels))
	for i, r := range rows {
		for j, label := range normalize.KnownLabels {
			record[j] = r[label]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
