package normalize

import (
	"fmt"
	"strings"

	"github.com/okian/concal/internal/domain/model"
)

// Column labels as they appear in the event export header row.
const (
	LabelGameID            = "Game ID"
	LabelGroup             = "Group"
	LabelTitle             = "Title"
	LabelShortDescription  = "Short Description"
	LabelLongDescription   = "Long Description"
	LabelEventType         = "Event Type"
	LabelGameSystem        = "Game System"
	LabelRulesEdition      = "Rules Edition"
	LabelMinPlayers        = "Minimum Players"
	LabelMaxPlayers        = "Maximum Players"
	LabelAgeRequired       = "Age Required"
	LabelExperience        = "Experience Required"
	LabelMaterialsRequired = "Materials Required"
	LabelMaterialsDetails  = "Materials Required Details"
	LabelStart             = "Start Date & Time"
	LabelDuration          = "Duration"
	LabelEnd               = "End Date & Time"
	LabelGMNames           = "GM Names"
	LabelWebsite           = "Website"
	LabelEmail             = "Email"
	LabelTournament        = "Tournament?"
	LabelRound             = "Round Number"
	LabelTotalRounds       = "Total Rounds"
	LabelMinPlayTime       = "Minimum Play Time"
	LabelRegistration      = "Attendee Registration?"
	LabelCost              = "Cost $"
	LabelLocation          = "Location"
	LabelRoom              = "Room Name"
	LabelTable             = "Table Number"
	LabelSpecialCategory   = "Special Category"
	LabelTickets           = "Tickets Available"
	LabelLastModified      = "Last Modified"
)

// KnownLabels lists every label of the export in spreadsheet column order (A..AF).
var KnownLabels = []string{
	LabelGameID, LabelGroup, LabelTitle, LabelShortDescription, LabelLongDescription,
	LabelEventType, LabelGameSystem, LabelRulesEdition, LabelMinPlayers, LabelMaxPlayers,
	LabelAgeRequired, LabelExperience, LabelMaterialsRequired, LabelMaterialsDetails,
	LabelStart, LabelDuration, LabelEnd, LabelGMNames, LabelWebsite, LabelEmail,
	LabelTournament, LabelRound, LabelTotalRounds, LabelMinPlayTime, LabelRegistration,
	LabelCost, LabelLocation, LabelRoom, LabelTable, LabelSpecialCategory, LabelTickets,
	LabelLastModified,
}

// requiredLabels must be resolvable for a dataset to be normalized at all.
var requiredLabels = []string{LabelGameID, LabelTitle, LabelEventType, LabelStart, LabelEnd}

// Columns maps a column label to the key rows store its value under.
// It is resolved once per dataset and read-only afterwards.
type Columns map[string]string

// LabelColumns returns the mapping for rows already keyed by header label.
func LabelColumns() Columns {
	c := make(Columns, len(KnownLabels))
	for _, l := range KnownLabels {
		c[l] = l
	}
	return c
}

// ResolveHeader builds Columns from a header row that maps column keys
// (e.g. "A", "AA") to labels. Unknown labels are kept so callers can still
// look them up; missing required labels fail the whole dataset.
func ResolveHeader(header model.RawRow) (Columns, error) {
	c := make(Columns, len(header))
	for key, label := range header {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if prev, dup := c[label]; dup && columnBefore(prev, key) {
			// keep the left-most column when a label repeats
			continue
		}
		c[label] = key
	}
	for _, l := range requiredLabels {
		if _, ok := c[l]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, l)
		}
	}
	return c, nil
}

// value returns the trimmed value of label in row, or "" when absent.
func (c Columns) value(row model.RawRow, label string) string {
	key, ok := c[label]
	if !ok {
		return ""
	}
	return strings.TrimSpace(row[key])
}

// columnBefore orders spreadsheet column keys: A < Z < AA < AF.
func columnBefore(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// ColumnKey returns the spreadsheet column name of a zero-based index:
// 0 is "A", 25 is "Z", 26 is "AA".
func ColumnKey(i int) string {
	name := ""
	for i++; i > 0; i = (i - 1) / 26 {
		name = string(rune('A'+(i-1)%26)) + name
	}
	return name
}
