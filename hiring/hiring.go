/*
Package hiring scores job applications and resolves employer decisions.

PURPOSE:
  A player applies for a posting; the employer answers 1-3 months later. The
  answer is a Bernoulli draw whose odds depend on how well the player matches
  the posting. Accepting an offer is a separate player action (see
  sim.AcceptJob) that stages the job for the next month.

MATCH SCORE:
  base 50
  education:  +20 held / -20 missing / +10 no requirement
  certificate: +15 held / -15 missing / +5 no requirement
  credit:     +10 (>=740) / +5 (>=670) / -10 (<580)
  tenure:     +15 (>=12) / +10 (>=6) / +5 (>=3)
  history:    +10 (>3 jobs) / +5 (>0)
  any credential held: +10
  clamp [0,100], then +uniform(-10,+10), rounded

DECISION ODDS:
  score >= 75: 95% | >= 60: 65% | >= 50: 40% | else 15%

RANDOMNESS:
  Every draw goes through the generic.Rand passed in. Tests pass a
  generic.FixedRand to force outcomes.
*/
package hiring

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/credit"
	"github.com/warp/lifesim/generic"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Application is a submitted application. Job is a snapshot of the posting
// with the offered pay, so later catalog edits do not change it.
type Application struct {
	ID         string            `json:"id"`
	Job        catalog.Job       `json:"job"`
	AppliedOn  generic.MonthDate `json:"applied_on"`
	DecisionOn generic.MonthDate `json:"decision_on"`
	MatchScore int               `json:"match_score"`
	Status     Status            `json:"status"`
	Chosen     bool              `json:"chosen"`
}

// Applicant is the slice of player state the employer looks at.
type Applicant struct {
	Credentials  map[string]bool
	CreditScore  int
	TenureMonths int
	PreviousJobs int
}

func (a Applicant) holds(name string) bool { return a.Credentials[name] }

// =============================================================================
// SCORING
// =============================================================================

// FitScore is the deterministic part of the match score, in [0,100].
func FitScore(job catalog.Job, a Applicant) int {
	score := 50

	switch {
	case job.EducationRequired == "":
		score += 10
	case a.holds(job.EducationRequired):
		score += 20
	default:
		score -= 20
	}

	switch {
	case job.CertRequired == "":
		score += 5
	case a.holds(job.CertRequired):
		score += 15
	default:
		score -= 15
	}

	switch {
	case a.CreditScore >= 740:
		score += 10
	case a.CreditScore >= 670:
		score += 5
	case a.CreditScore < 580:
		score -= 10
	}

	switch {
	case a.TenureMonths >= 12:
		score += 15
	case a.TenureMonths >= 6:
		score += 10
	case a.TenureMonths >= 3:
		score += 5
	}

	switch {
	case a.PreviousJobs > 3:
		score += 10
	case a.PreviousJobs > 0:
		score += 5
	}

	if len(a.Credentials) > 0 {
		score += 10
	}

	return generic.ClampInt(score, 0, 100)
}

// Score adds the employer's mood to FitScore. The result is not re-clamped,
// so it may fall slightly outside [0,100].
func Score(job catalog.Job, a Applicant, rnd generic.Rand) int {
	noise := rnd.Float64()*20 - 10
	return int(math.Round(float64(FitScore(job, a)) + noise))
}

// DecisionDate is 1 to 3 months after applied, uniformly.
func DecisionDate(applied generic.MonthDate, rnd generic.Rand) generic.MonthDate {
	return applied.AddMonths(1 + rnd.Intn(3))
}

// AcceptProbability maps a match score to the employer's odds of hiring.
func AcceptProbability(score int) float64 {
	switch {
	case score >= 75:
		return 0.95
	case score >= 60:
		return 0.65
	case score >= 50:
		return 0.40
	default:
		return 0.15
	}
}

var offerSpread = decimal.RequireFromString("0.05")

// OfferPay varies the posted base pay by up to ±5% and lifts it by the
// credit salary bonus.
func OfferPay(base generic.Money, creditScore int, rnd generic.Rand) generic.Money {
	variation := decimal.NewFromFloat(rnd.Float64()*2 - 1).Round(6).Mul(offerSpread)
	bonus := credit.SalaryCreditBonus(creditScore)
	return generic.Round2(base.Mul(generic.One.Add(variation)).Mul(generic.One.Add(bonus)))
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Apply builds a pending application. Draw order: score noise, decision
// delay, offer variation.
func Apply(id string, job catalog.Job, a Applicant, now generic.MonthDate, rnd generic.Rand) Application {
	score := Score(job, a, rnd)
	decision := DecisionDate(now, rnd)
	offered := job
	offered.BasePay = OfferPay(job.BasePay, a.CreditScore, rnd)
	return Application{
		ID:         id,
		Job:        offered,
		AppliedOn:  now,
		DecisionOn: decision,
		MatchScore: score,
		Status:     StatusPending,
	}
}

// Result is the outcome of one resolved application.
type Result struct {
	ApplicationID string      `json:"application_id"`
	Title         string      `json:"title"`
	Status        Status      `json:"status"`
	Job           catalog.Job `json:"job"`
}

// Resolve decides every pending application whose decision date is on or
// before now, in order, updating apps in place.
func Resolve(apps []Application, now generic.MonthDate, rnd generic.Rand) []Result {
	var results []Result
	for i := range apps {
		app := &apps[i]
		if app.Status != StatusPending || app.DecisionOn.After(now) {
			continue
		}
		if rnd.Float64() < AcceptProbability(app.MatchScore) {
			app.Status = StatusAccepted
		} else {
			app.Status = StatusRejected
		}
		results = append(results, Result{
			ApplicationID: app.ID,
			Title:         app.Job.Title,
			Status:        app.Status,
			Job:           app.Job,
		})
	}
	return results
}
