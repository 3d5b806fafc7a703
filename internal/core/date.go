package core

import (
	"fmt"
	"time"
)

// CanonicalDateLayout is the textual form used for storage, parsing and
// ordering comparisons.
const CanonicalDateLayout = "2006-01-02"

// Layouts tolerated on read. Older records were stored through several
// frontend revisions, so a couple of separator variants show up.
var billDateLayouts = []string{
	CanonicalDateLayout,
	"2006/01/02",
	"02-01-2006",
	"2006-1-2",
}

var shortMonths = [...]string{
	"Jan.", "Fév.", "Mar.", "Avr.", "Mai", "Juin",
	"Juil.", "Aoû.", "Sep.", "Oct.", "Nov.", "Déc.",
}

// ParseBillDate parses a stored bill date. Callers that get an error
// back are expected to keep the raw string (corruption tolerance, not
// strict validation).
func ParseBillDate(raw string) (time.Time, error) {
	for _, layout := range billDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable bill date %q", raw)
}

// FormatShortDate renders the short display form used in the bill list,
// e.g. "4 Avr. 04".
func FormatShortDate(t time.Time) string {
	return fmt.Sprintf("%d %s %02d", t.Day(), shortMonths[t.Month()-1], t.Year()%100)
}

// SortKey returns the canonical comparison key for a date.
func SortKey(t time.Time) string {
	return t.Format(CanonicalDateLayout)
}
