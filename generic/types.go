/*
Package generic provides the domain-agnostic primitives of the simulation engine.

PURPOSE:
  This package contains the building blocks that carry no knowledge of jobs,
  cities or vehicles: currency arithmetic, the monthly calendar, the running
  balance ledger, seeded random streams, the save-slot store contract and the
  error taxonomy. Domain packages (credit, costs, hiring, sim) compose them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: decimal.Decimal rounded to cents at every observable boundary
  - Rate:  decimal.Decimal annual or monthly fraction (0.105 = 10.5%)
  - Clamp helpers for integer scores and money

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift
  2. Totality: helpers clamp instead of failing
  3. Determinism: no helper reads the wall clock or global randomness

USAGE:
  rent := generic.Round2(salary.Mul(generic.Pct(30)))
  score = generic.ClampInt(score+5, 300, 850)

SEE ALSO:
  - time.go: MonthDate calendar arithmetic
  - ledger.go: Running balance ledger
  - rand.go: Seeded random streams
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Currency amounts, always compared and displayed at cent precision
// =============================================================================

// Money is a currency amount. The alias keeps decimal's full API available
// while documenting intent at call sites.
type Money = decimal.Decimal

// Rate is a fraction such as an APR (0.105) or a multiplier (1.25).
type Rate = decimal.Decimal

var (
	Zero    = decimal.Zero
	One     = decimal.NewFromInt(1)
	Hundred = decimal.NewFromInt(100)
	Twelve  = decimal.NewFromInt(12)

	// Cent is the smallest distinguishable amount; reconciliation tolerance.
	Cent = decimal.New(1, -2)
)

func NewMoney(value float64) Money      { return Round2(decimal.NewFromFloat(value)) }
func NewMoneyFromInt(value int64) Money { return decimal.NewFromInt(value) }
func NewRate(value float64) Rate        { return decimal.NewFromFloat(value) }

// Pct converts a whole percentage (30) into a rate (0.30).
func Pct(percent float64) Rate {
	return decimal.NewFromFloat(percent).Div(Hundred)
}

// MustParseMoney parses s or returns zero.
func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Round2 rounds half away from zero to cents.
func Round2(m Money) Money { return m.Round(2) }

// NonNegative returns m, or zero when m is negative.
func NonNegative(m Money) Money {
	if m.IsNegative() {
		return decimal.Zero
	}
	return m
}

func MinMoney(a, b Money) Money {
	if a.LessThan(b) {
		return a
	}
	return b
}

func MaxMoney(a, b Money) Money {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// ClampMoney bounds m to [lo, hi].
func ClampMoney(m, lo, hi Money) Money { return MaxMoney(lo, MinMoney(m, hi)) }

// WithinCent reports whether a and b differ by strictly less than one cent.
func WithinCent(a, b Money) bool { return a.Sub(b).Abs().LessThan(Cent) }

// FormatMoney renders m as a fixed two-decimal string ("1200.00").
func FormatMoney(m Money) string { return m.StringFixed(2) }

// =============================================================================
// SCALARS
// =============================================================================

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
