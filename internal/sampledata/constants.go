package sampledata

import "time"

// HTTP status code constants.
const (
	StatusOK = 200
)

// Generation constants.
const (
	defaultEvents    = 500
	defaultDays      = 4
	slotMinutes      = 30
	firstSlot        = 8 * 60  // 08:00
	lastSlot         = 23 * 60 // 23:00
	timestampLayout  = "01/02/2006 03:04 PM"
	maxTickets       = 12
	tournamentRounds = 3
)

// Verification constants.
const (
	DefaultTimeout   = 30 * time.Second
	conflictSample   = 40
	defaultPageLimit = 500
)

var (
	eventTypes = []string{
		"RPG - Role Playing Game",
		"BGM - Board Game",
		"TCG - Trading Card Game",
		"NMN - Non-Historical Miniatures",
		"SEM - Seminar",
		"ENT - Entertainment Events",
		"LRP - LARP",
	}
	ageRequirements = []string{
		"Everyone (6+)",
		"Kids Only (12 and under)",
		"Teen (13+)",
		"Mature (18+)",
		"21+",
	}
	experience = []string{
		"None (You've never played before - rules will be taught)",
		"Some (You've played it a bit and understand the basics)",
		"Expert (You play it regularly and know all the rules)",
	}
	gameSystems = []string{
		"Pathfinder: Second Edition",
		"Dungeons & Dragons 5e",
		"Call of Cthulhu",
		"Warhammer 40,000",
		"Magic: The Gathering",
		"Catan",
		"",
	}
	groups = []string{
		"Dragon Dice Society",
		"Pandemonium Gaming",
		"Paizo Organized Play",
		"",
		"",
	}
	locations = []string{"ICC", "icc", "JW", "Hyatt", "Lucas Oil", "Westin", ""}
	rooms     = []string{"Hall D", "Hall E", "Room 101", "Grand Ballroom", ""}
	durations = []float64{0.5, 1, 1, 1.5, 2, 2, 3, 4, 6}
	costs     = []float64{0, 2, 4, 4, 6, 8, 12, 20}
)
