package sim

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/warp/lifesim/credit"
	"github.com/warp/lifesim/generic"
	"github.com/warp/lifesim/hiring"
)

// =============================================================================
// CAREER
// =============================================================================

func (s *State) applicant() hiring.Applicant {
	return hiring.Applicant{
		Credentials:  s.credentialSet(),
		CreditScore:  s.CreditScore,
		TenureMonths: s.TenureMonths,
		PreviousJobs: len(s.CareerHistory),
	}
}

// ApplyForJob submits an application. Only one pending application per
// title is allowed.
func (e *Engine) ApplyForJob(s *State, title string, rnd generic.Rand) (hiring.Application, error) {
	job, ok := e.Catalog.Job(title)
	if !ok {
		return hiring.Application{}, &generic.UnknownReferenceError{Kind: "job", Name: title}
	}
	for _, a := range s.Applications {
		if a.Job.Title == job.Title && a.Status == hiring.StatusPending {
			return hiring.Application{}, generic.ErrDuplicateApplication
		}
	}

	app := hiring.Apply(e.NewID(), job, s.applicant(), s.Date, rnd)
	s.Applications = append(s.Applications, app)
	s.logf(s.Date, "Applied for %s (decision by %s)", job.Title, app.DecisionOn)
	return app, nil
}

// OpenSettlement resolves the applications whose decision date has come.
// Results are kept on the state until the next month.
func (e *Engine) OpenSettlement(s *State, rnd generic.Rand) []hiring.Result {
	results := hiring.Resolve(s.Applications, s.Date, rnd)
	for _, r := range results {
		if r.Status == hiring.StatusAccepted {
			s.logf(s.Date, "Hired for %s at $%s/mo", r.Title, generic.FormatMoney(r.Job.BasePay))
		} else {
			s.logf(s.Date, "Application rejected for %s", r.Title)
		}
	}
	s.SettlementResults = append(s.SettlementResults, results...)
	s.ShowSettlement = len(s.SettlementResults) > 0
	return results
}

// AcceptJob stages an accepted offer as the next job. Accepting another
// offer later replaces it.
func (e *Engine) AcceptJob(s *State, applicationID string) error {
	idx := -1
	for i := range s.Applications {
		if s.Applications[i].ID == applicationID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return generic.ErrApplicationNotFound
	}
	app := &s.Applications[idx]
	if app.Status != hiring.StatusAccepted {
		return generic.ErrApplicationNotAccepted
	}

	for i := range s.Applications {
		s.Applications[i].Chosen = i == idx
	}
	job := app.Job
	s.Pending.Job = &job
	s.logf(s.Date, "Accepted offer: %s starting next month", job.Title)
	return nil
}

// NegotiationResult reports a raise request.
type NegotiationResult struct {
	Accepted bool          `json:"accepted"`
	Percent  float64       `json:"percent"`
	Ceiling  float64       `json:"ceiling"`
	BasePay  generic.Money `json:"base_pay"`
}

// NegotiatePay asks for a raise of percent. The request is granted when it
// does not exceed the negotiation ceiling for the player's credit, tenure and
// fit with the current job. Every attempt, granted or not, starts the
// cooldown.
func (e *Engine) NegotiatePay(s *State, percent float64) (NegotiationResult, error) {
	if percent <= 0 || math.IsNaN(percent) || math.IsInf(percent, 0) {
		return NegotiationResult{}, generic.ErrInvalidAmount
	}
	cooldown := e.Params.NegotiationCooldownMonths
	if since, ok := s.Date.MonthsSince(s.LastNegotiation); ok && since < cooldown {
		return NegotiationResult{}, &generic.CooldownError{
			Action: "pay negotiation",
			Until:  s.LastNegotiation.AddMonths(cooldown),
		}
	}

	fit := hiring.FitScore(s.Job, s.applicant())
	ceiling := credit.PayNegotiationCeiling(s.CreditScore, s.TenureMonths, float64(fit))
	s.LastNegotiation = s.Date

	res := NegotiationResult{Percent: percent, Ceiling: ceiling, BasePay: s.Job.BasePay}
	if percent > ceiling {
		s.logf(s.Date, "Raise of %.1f%% declined", percent)
		return res, nil
	}

	raise := decimal.NewFromFloat(percent).Div(generic.Hundred)
	s.Job.BasePay = generic.Round2(s.Job.BasePay.Mul(generic.One.Add(raise)))
	res.Accepted = true
	res.BasePay = s.Job.BasePay
	s.logf(s.Date, "Negotiated a %.1f%% raise: %s now pays $%s", percent, s.Job.Title, generic.FormatMoney(s.Job.BasePay))
	return res, nil
}

// =============================================================================
// LOANS
// =============================================================================

// LoanSummary is the borrowing picture for the current debt.
type LoanSummary struct {
	Debt            generic.Money      `json:"debt"`
	APR             generic.Rate       `json:"apr"`
	MonthlyInterest generic.Money      `json:"monthly_interest"`
	MinimumPayment  generic.Money      `json:"minimum_payment"`
	Housing         credit.HousingTier `json:"housing"`
	SalaryBonus     generic.Rate       `json:"salary_bonus"`
	Payment         generic.Money      `json:"payment"`
	Payoff          credit.Payoff      `json:"payoff"`
}

// Loans summarizes the debt. A zero payment estimates payoff at the
// minimum payment.
func (e *Engine) Loans(s *State, payment generic.Money) LoanSummary {
	debt, score := s.Accounts.Debt, s.CreditScore
	minimum := credit.MinimumPayment(debt, score)
	if !payment.IsPositive() {
		payment = minimum
	}
	return LoanSummary{
		Debt:            debt,
		APR:             credit.LoanAPR(score),
		MonthlyInterest: credit.MonthlyInterest(debt, score),
		MinimumPayment:  minimum,
		Housing:         credit.HousingTierFor(score),
		SalaryBonus:     credit.SalaryCreditBonus(score),
		Payment:         payment,
		Payoff:          credit.PayoffEstimate(debt, payment, score),
	}
}

// String is used by the CLI.
func (l LoanSummary) String() string {
	if !l.Debt.IsPositive() {
		return "no debt"
	}
	if !l.Payoff.Reachable {
		return fmt.Sprintf("$%s at %s%% APR: $%s/mo never pays it off",
			generic.FormatMoney(l.Debt), l.APR.Mul(generic.Hundred).StringFixed(2), generic.FormatMoney(l.Payment))
	}
	return fmt.Sprintf("$%s at %s%% APR: $%s/mo clears it in %d months ($%s interest)",
		generic.FormatMoney(l.Debt), l.APR.Mul(generic.Hundred).StringFixed(2), generic.FormatMoney(l.Payment),
		l.Payoff.Months, generic.FormatMoney(l.Payoff.TotalInterest))
}
