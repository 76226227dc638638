/*
Package costs holds every cost formula shared by the ledger builder and the
month processor.

PURPOSE:
  The ledger is what the player verifies and the month transition is what
  actually happens; both must charge identical amounts. Keeping the formulas
  in one package, consumed identically by both, means verification cannot
  drift from the real charges.

VARIABLE COSTS:
  Some categories move with the season and with a small reproducible noise:

    cost = round2(base * locale * (1 + clamp(seasonal[month] + noise, ±5%)))

  noise is in [-2%, +2%] and derived from a hash of
  (year, month, category, locale key), so the same month in the same city
  always yields the same bill, including after a save/load.

SEE ALSO:
  - costs/formulas.go: Salary, rent, living, vehicle and luxury formulas
  - generic/rand.go: SeedFromParts, SplitMix64
*/
package costs

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/warp/lifesim/generic"
)

type Category string

const (
	Utilities     Category = "utilities"
	Food          Category = "food"
	Gas           Category = "gas"
	Car           Category = "car"
	Entertainment Category = "entertainment"
)

const (
	maxNoise      = 0.02
	maxAdjustment = 0.05
)

// seasonal bias per category, indexed by month-1.
var seasonal = map[Category][12]float64{
	//             Jan    Feb    Mar    Apr    May    Jun    Jul    Aug    Sep    Oct    Nov    Dec
	Utilities:     {0.04, 0.035, 0.01, -0.01, -0.02, 0.01, 0.03, 0.03, 0.0, -0.015, 0.01, 0.035},
	Food:          {-0.01, -0.01, 0.0, 0.0, 0.005, 0.01, 0.01, 0.005, 0.0, 0.005, 0.02, 0.03},
	Gas:           {-0.02, -0.015, 0.0, 0.01, 0.025, 0.035, 0.04, 0.035, 0.01, 0.0, -0.01, -0.01},
	Car:           {0.03, 0.025, 0.01, 0.0, -0.01, -0.01, 0.0, 0.0, -0.005, 0.0, 0.01, 0.025},
	Entertainment: {-0.02, -0.01, 0.0, 0.0, 0.01, 0.02, 0.03, 0.02, -0.01, 0.0, 0.01, 0.04},
}

// Noise returns the reproducible noise term in [-0.02, +0.02].
func Noise(date generic.MonthDate, category Category, localeKey string) float64 {
	seed := generic.SeedFromParts(
		strconv.Itoa(date.Year),
		strconv.Itoa(int(date.Month)),
		string(category),
		localeKey,
	)
	f := generic.NewSplitMix64(seed).Float64()
	return (f*2 - 1) * maxNoise
}

// Adjustment returns seasonal bias plus noise, clamped to [-0.05, +0.05] and
// rounded to four places so that money math on top of it stays exact.
func Adjustment(date generic.MonthDate, category Category, localeKey string) generic.Rate {
	var bias float64
	if table, ok := seasonal[category]; ok && date.Month >= 1 && date.Month <= 12 {
		bias = table[date.Month-1]
	}
	adj := generic.ClampFloat(bias+Noise(date, category, localeKey), -maxAdjustment, maxAdjustment)
	return decimal.NewFromFloat(adj).Round(4)
}

// VariableCost applies locale and seasonal adjustment to base.
func VariableCost(base generic.Money, date generic.MonthDate, localeMultiplier generic.Rate, category Category, localeKey string) generic.Money {
	factor := generic.One.Add(Adjustment(date, category, localeKey))
	return generic.Round2(base.Mul(localeMultiplier).Mul(factor))
}
