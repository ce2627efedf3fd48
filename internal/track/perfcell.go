package track

import (
	"regexp"
	"strings"
)

// A performance cell starts life as the trading date it is waiting
// for and is later replaced with the realized percentage string. Both
// states live in the same CSV column, so the cell carries its own tag.

type CellKind int

const (
	CellEmpty CellKind = iota
	CellPendingDate
	CellPercent
)

var (
	datePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	percentPattern = regexp.MustCompile(`^-?\d+(\.\d+)?%$`)
)

type PerfCell struct {
	Kind CellKind
	Raw  string
}

// ParsePerfCell classifies one raw CSV cell.
func ParsePerfCell(raw string) PerfCell {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return PerfCell{Kind: CellEmpty}
	case datePattern.MatchString(raw):
		return PerfCell{Kind: CellPendingDate, Raw: raw}
	case percentPattern.MatchString(raw):
		return PerfCell{Kind: CellPercent, Raw: raw}
	default:
		return PerfCell{Kind: CellEmpty, Raw: raw}
	}
}

// Pending reports whether the cell still waits on a price.
func (c PerfCell) Pending() bool { return c.Kind == CellPendingDate }

func (c PerfCell) String() string { return c.Raw }
