package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH DATE - The simulation's only unit of time
// =============================================================================

// MonthDate is a (year, month) pair. The simulation never resolves finer than
// a month; days and hours do not exist in the game calendar.
type MonthDate struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Constructors
func NewMonthDate(year int, month time.Month) MonthDate {
	return MonthDate{Year: year, Month: month}.normalize()
}

// FromIndex is the inverse of Index.
func FromIndex(idx int) MonthDate {
	return MonthDate{Year: idx / 12, Month: time.Month(idx%12 + 1)}
}

// Index returns a monotonically increasing month number suitable for
// subtraction (year*12 + month-1).
func (d MonthDate) Index() int { return d.Year*12 + int(d.Month) - 1 }

func (d MonthDate) normalize() MonthDate {
	if d.Month >= time.January && d.Month <= time.December {
		return d
	}
	return FromIndex(d.Year*12 + int(d.Month) - 1)
}

// Comparison
func (d MonthDate) Before(other MonthDate) bool        { return d.Index() < other.Index() }
func (d MonthDate) After(other MonthDate) bool         { return d.Index() > other.Index() }
func (d MonthDate) Equal(other MonthDate) bool         { return d.Index() == other.Index() }
func (d MonthDate) BeforeOrEqual(other MonthDate) bool { return d.Index() <= other.Index() }
func (d MonthDate) AfterOrEqual(other MonthDate) bool  { return d.Index() >= other.Index() }
func (d MonthDate) IsZero() bool                       { return d.Year == 0 && d.Month == 0 }

// Arithmetic
func (d MonthDate) AddMonths(n int) MonthDate { return FromIndex(d.Index() + n) }
func (d MonthDate) Next() MonthDate           { return d.AddMonths(1) }

// MonthsBetween returns to - from in whole months (negative if to is earlier).
func MonthsBetween(from, to MonthDate) int { return to.Index() - from.Index() }

// MonthsSince returns the months elapsed since last, or ok=false when last is
// the zero date (the event never happened).
func (d MonthDate) MonthsSince(last MonthDate) (int, bool) {
	if last.IsZero() {
		return 0, false
	}
	return MonthsBetween(last, d), true
}

// String renders the game's "M/YYYY" format used in the audit log.
func (d MonthDate) String() string { return fmt.Sprintf("%d/%d", int(d.Month), d.Year) }
