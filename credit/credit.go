/*
Package credit implements the credit and rate model.

PURPOSE:
  Pure functions of a credit score (and, for negotiation, tenure and job fit)
  that decide borrowing cost, housing quality, salary bonus and how far a
  player may push a raise. Also owns the score discipline: how payments and
  reconciliation answers move the score and the streak counters.

KEY CONCEPTS:
  - Score: integer in [MinScore, MaxScore]. Out-of-band input is clamped,
    never rejected.
  - APR: piecewise linear, inverse to the score, continuous at 600.
  - Streaks: consecutive successes; a failure resets to zero.

APR CURVE:
  score:  300 ........ 600 ........ 850
  APR:    21%  ......  10.5% .....  3%

SEE ALSO:
  - credit/loans.go: Interest, amortization and payoff estimates
  - sim/month.go: Applies payment discipline during the month transition
  - sim/reconcile.go: Applies reconciliation discipline
*/
package credit

import (
	"github.com/shopspring/decimal"

	"github.com/warp/lifesim/generic"
)

const (
	MinScore = 300
	MaxScore = 850

	// pivot is the score where the two APR segments meet.
	pivot = 600
)

var (
	aprCeiling = decimal.RequireFromString("0.21")
	aprPivot   = decimal.RequireFromString("0.105")
	aprFloor   = decimal.RequireFromString("0.03")

	maxSalaryBonus = decimal.RequireFromString("0.15")
)

// ClampScore bounds a score to [MinScore, MaxScore].
func ClampScore(score int) int {
	return generic.ClampInt(score, MinScore, MaxScore)
}

// =============================================================================
// BORROWING COST
// =============================================================================

// LoanAPR returns the yearly borrowing rate for a score.
func LoanAPR(score int) generic.Rate {
	switch {
	case score < MinScore:
		return aprCeiling
	case score >= MaxScore:
		return aprFloor
	case score <= pivot:
		return aprLowBranch(score)
	default:
		return aprHighBranch(score)
	}
}

// aprLowBranch interpolates 0.21 -> 0.105 over [300, 600].
func aprLowBranch(score int) generic.Rate {
	span := aprCeiling.Sub(aprPivot)
	drop := span.Mul(decimal.NewFromInt(int64(score - MinScore))).Div(decimal.NewFromInt(pivot - MinScore))
	return aprCeiling.Sub(drop)
}

// aprHighBranch interpolates 0.105 -> 0.03 over [600, 850].
func aprHighBranch(score int) generic.Rate {
	span := aprPivot.Sub(aprFloor)
	drop := span.Mul(decimal.NewFromInt(int64(score - pivot))).Div(decimal.NewFromInt(MaxScore - pivot))
	return aprPivot.Sub(drop)
}

// MonthlyRate is LoanAPR / 12.
func MonthlyRate(score int) generic.Rate {
	return LoanAPR(score).Div(generic.Twelve)
}

// =============================================================================
// HOUSING
// =============================================================================

// HousingTier is the quality of housing a score can secure. Multiplier scales
// the rent base.
type HousingTier struct {
	Name       string       `json:"name"`
	Multiplier generic.Rate `json:"multiplier"`
}

var housingTiers = []struct {
	minScore int
	tier     HousingTier
}{
	{750, HousingTier{Name: "Luxury", Multiplier: decimal.RequireFromString("1.5")}},
	{700, HousingTier{Name: "Premium", Multiplier: decimal.RequireFromString("1.25")}},
	{650, HousingTier{Name: "Standard", Multiplier: decimal.RequireFromString("1.0")}},
	{600, HousingTier{Name: "Budget", Multiplier: decimal.RequireFromString("0.85")}},
}

var basicHousing = HousingTier{Name: "Basic", Multiplier: decimal.RequireFromString("0.7")}

func HousingTierFor(score int) HousingTier {
	for _, band := range housingTiers {
		if score >= band.minScore {
			return band.tier
		}
	}
	return basicHousing
}

// =============================================================================
// SALARY
// =============================================================================

// SalaryCreditBonus is the multiplier bonus (0..0.15) applied to job offers.
func SalaryCreditBonus(score int) generic.Rate {
	switch {
	case score < MinScore:
		return generic.Zero
	case score >= 800:
		return maxSalaryBonus
	}
	return maxSalaryBonus.Mul(decimal.NewFromInt(int64(score - MinScore))).Div(decimal.NewFromInt(800 - MinScore))
}

// MaxNegotiationPercent caps PayNegotiationCeiling.
const MaxNegotiationPercent = 11.0

// PayNegotiationCeiling returns the largest raise, in percent, a player may
// ask for. fitScore is 0..100.
func PayNegotiationCeiling(score, tenureMonths int, fitScore float64) float64 {
	creditPart := min(5.0, float64(ClampScore(score)-MinScore)/55.0)
	tenurePart := min(3.0, float64(max(tenureMonths, 0))/36.0*8.0)
	fitPart := generic.ClampFloat(fitScore, 0, 100) / 100.0 * 3.0
	return min(MaxNegotiationPercent, creditPart+tenurePart+fitPart)
}

// =============================================================================
// SCORE DISCIPLINE
// =============================================================================

type PaymentOutcome int

const (
	// PaymentMissed: debt outstanding, nothing paid, not skipped.
	PaymentMissed PaymentOutcome = iota
	// PaymentSkipped: the player explicitly skipped this month.
	PaymentSkipped
	PaymentOnTime
)

func (o PaymentOutcome) String() string {
	switch o {
	case PaymentSkipped:
		return "skipped"
	case PaymentOnTime:
		return "on-time"
	default:
		return "missed"
	}
}

const (
	skipPenalty     = 50
	missPenalty     = 20
	onTimeGain      = 5
	streakBonusStep = 5
	maxStreakBonus  = 25
)

// ApplyPayment returns the score and payment streak after a month with
// outstanding debt. An on-time payment earns +5, and every third consecutive
// one adds a bonus growing by 5 per three months, up to +30 in total.
func ApplyPayment(score, streak int, outcome PaymentOutcome) (newScore, newStreak int) {
	switch outcome {
	case PaymentSkipped:
		return ClampScore(score - skipPenalty), 0
	case PaymentMissed:
		return ClampScore(score - missPenalty), 0
	}
	newStreak = streak + 1
	gain := onTimeGain
	if newStreak%3 == 0 {
		gain += min(maxStreakBonus, newStreak/3*streakBonusStep)
	}
	return ClampScore(score + gain), newStreak
}

const (
	checkReward         = 2
	checkStreakEvery    = 5
	maxCheckPenalty     = 30
	checkPenaltyDivisor = 10
)

// ApplyCheck returns the score and calculation streak after a reconciliation
// answer. diff is the absolute distance between the player's value and the
// expected running balance; it only matters when correct is false.
func ApplyCheck(score, streak int, correct bool, diff generic.Money) (newScore, newStreak int) {
	if correct {
		newStreak = streak + 1
		bonus := min(maxStreakBonus, newStreak/checkStreakEvery*streakBonusStep)
		return ClampScore(score + checkReward + bonus), newStreak
	}
	penalty := diff.Abs().Div(decimal.NewFromInt(checkPenaltyDivisor)).Ceil().IntPart()
	if penalty > maxCheckPenalty {
		penalty = maxCheckPenalty
	}
	return ClampScore(score - int(penalty)), 0
}
