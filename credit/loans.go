package credit

import (
	"github.com/shopspring/decimal"

	"github.com/warp/lifesim/generic"
)

// =============================================================================
// INTEREST & AMORTIZATION
// =============================================================================

// MonthlyInterest is one month of interest on balance at the score's APR,
// rounded to cents.
func MonthlyInterest(balance generic.Money, score int) generic.Money {
	if !balance.IsPositive() {
		return generic.Zero
	}
	return generic.Round2(balance.Mul(MonthlyRate(score)))
}

// AmortizedPayment is the fixed monthly payment that repays principal over
// months at apr. A zero rate splits the principal evenly.
func AmortizedPayment(principal generic.Money, apr generic.Rate, months int) generic.Money {
	if months <= 0 || !principal.IsPositive() {
		return generic.Zero
	}
	n := decimal.NewFromInt(int64(months))
	r := apr.Div(generic.Twelve)
	if r.IsZero() {
		return generic.Round2(principal.Div(n))
	}
	growth := generic.One.Add(r).Pow(n)
	return generic.Round2(principal.Mul(r).Mul(growth).Div(growth.Sub(generic.One)))
}

var (
	minimumPaymentFloor = decimal.NewFromInt(25)
	minimumPaymentShare = decimal.RequireFromString("0.01")
)

// MinimumPayment is this month's interest plus 1% of the balance, at least
// $25 and never more than what is owed.
func MinimumPayment(debt generic.Money, score int) generic.Money {
	if !debt.IsPositive() {
		return generic.Zero
	}
	interest := MonthlyInterest(debt, score)
	payment := generic.Round2(debt.Mul(minimumPaymentShare).Add(interest))
	payment = generic.MaxMoney(payment, minimumPaymentFloor)
	return generic.MinMoney(payment, debt.Add(interest))
}

// MaxPayoffMonths bounds PayoffEstimate.
const MaxPayoffMonths = 600

// Payoff summarizes repaying a balance with a constant payment.
type Payoff struct {
	Months        int           `json:"months"`
	TotalInterest generic.Money `json:"total_interest"`
	// Reachable is false when the payment never outruns the interest.
	Reachable bool `json:"reachable"`
}

// PayoffEstimate simulates interest-then-payment months until the balance is
// cleared, the way the month transition accrues it.
func PayoffEstimate(debt, monthlyPayment generic.Money, score int) Payoff {
	if !debt.IsPositive() {
		return Payoff{Reachable: true}
	}
	if !monthlyPayment.IsPositive() || !monthlyPayment.GreaterThan(MonthlyInterest(debt, score)) {
		return Payoff{}
	}
	balance := debt
	total := generic.Zero
	for month := 1; month <= MaxPayoffMonths; month++ {
		interest := MonthlyInterest(balance, score)
		total = total.Add(interest)
		balance = balance.Add(interest).Sub(monthlyPayment)
		if !balance.IsPositive() {
			return Payoff{Months: month, TotalInterest: total, Reachable: true}
		}
	}
	return Payoff{Months: MaxPayoffMonths, TotalInterest: total}
}
