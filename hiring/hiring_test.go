package hiring_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/generic"
	"github.com/warp/lifesim/hiring"
)

func clerk() catalog.Job {
	return catalog.Job{
		Title:             "Office Admin",
		BasePay:           generic.NewMoney(2100),
		EducationRequired: "HS Diploma",
		CertRequired:      "Human Resources",
		TransitRequired:   2,
	}
}

// =============================================================================
// SCORING
// =============================================================================

func TestFitScore_Components(t *testing.T) {
	tests := []struct {
		name      string
		job       catalog.Job
		applicant hiring.Applicant
		want      int
	}{
		{
			name:      "fresh player, requirements missing",
			job:       clerk(),
			applicant: hiring.Applicant{CreditScore: 600},
			want:      50 - 20 - 15,
		},
		{
			name: "credentials held",
			job:  clerk(),
			applicant: hiring.Applicant{
				Credentials: map[string]bool{"HS Diploma": true, "Human Resources": true},
				CreditScore: 600,
			},
			want: 50 + 20 + 15 + 10,
		},
		{
			name:      "no requirements",
			job:       catalog.Job{Title: "Odd Jobs"},
			applicant: hiring.Applicant{CreditScore: 600},
			want:      50 + 10 + 5,
		},
		{
			name: "strong history clamps at 100",
			job:  catalog.Job{Title: "Odd Jobs"},
			applicant: hiring.Applicant{
				Credentials:  map[string]bool{"HS Diploma": true},
				CreditScore:  800,
				TenureMonths: 24,
				PreviousJobs: 5,
			},
			want: 100,
		},
		{
			name:      "poor credit, some tenure",
			job:       catalog.Job{Title: "Odd Jobs"},
			applicant: hiring.Applicant{CreditScore: 550, TenureMonths: 3, PreviousJobs: 1},
			want:      50 + 10 + 5 - 10 + 5 + 5,
		},
		{
			name:      "weak profile",
			job:       clerk(),
			applicant: hiring.Applicant{CreditScore: 300},
			want:      5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hiring.FitScore(tt.job, tt.applicant))
		})
	}
}

func TestScore_NoiseRange(t *testing.T) {
	a := hiring.Applicant{CreditScore: 600}
	job := catalog.Job{Title: "Odd Jobs"} // fit 65

	assert.Equal(t, 55, hiring.Score(job, a, &generic.FixedRand{Floats: []float64{0}}))
	assert.Equal(t, 65, hiring.Score(job, a, &generic.FixedRand{Floats: []float64{0.5}}))
	assert.Equal(t, 75, hiring.Score(job, a, &generic.FixedRand{Floats: []float64{0.99999}}))
}

func TestDecisionDate_RollsOverYear(t *testing.T) {
	applied := generic.NewMonthDate(2026, time.November)

	assert.Equal(t, generic.NewMonthDate(2026, time.December), hiring.DecisionDate(applied, &generic.FixedRand{Ints: []int{0}}))
	assert.Equal(t, generic.NewMonthDate(2027, time.February), hiring.DecisionDate(applied, &generic.FixedRand{Ints: []int{2}}))
}

func TestAcceptProbability(t *testing.T) {
	assert.Equal(t, 0.95, hiring.AcceptProbability(75))
	assert.Equal(t, 0.65, hiring.AcceptProbability(74))
	assert.Equal(t, 0.65, hiring.AcceptProbability(60))
	assert.Equal(t, 0.40, hiring.AcceptProbability(50))
	assert.Equal(t, 0.15, hiring.AcceptProbability(49))
	assert.Equal(t, 0.15, hiring.AcceptProbability(-3))
}

func TestOfferPay(t *testing.T) {
	base := generic.NewMoney(2000)

	// Midpoint draw, no credit bonus
	assert.Equal(t, "2000.00", generic.FormatMoney(hiring.OfferPay(base, 300, &generic.FixedRand{Floats: []float64{0.5}})))
	// Lowest draw: -5%
	assert.Equal(t, "1900.00", generic.FormatMoney(hiring.OfferPay(base, 300, &generic.FixedRand{Floats: []float64{0}})))
	// Midpoint draw with the full 15% credit bonus
	assert.Equal(t, "2300.00", generic.FormatMoney(hiring.OfferPay(base, 820, &generic.FixedRand{Floats: []float64{0.5}})))
}

// =============================================================================
// LIFECYCLE
// =============================================================================

func TestApplyAndResolve(t *testing.T) {
	// GIVEN: An application decided two months after applying
	// WHEN: Resolving before, then on the decision month
	// THEN: Nothing happens early; on the date the draw decides

	now := generic.NewMonthDate(2026, time.February)
	rnd := &generic.FixedRand{Floats: []float64{0.5, 0.5}, Ints: []int{1}}
	app := hiring.Apply("app-1", catalog.Job{Title: "Odd Jobs", BasePay: generic.NewMoney(800)}, hiring.Applicant{CreditScore: 600}, now, rnd)

	assert.Equal(t, hiring.StatusPending, app.Status)
	assert.Equal(t, 65, app.MatchScore)
	assert.Equal(t, generic.NewMonthDate(2026, time.April), app.DecisionOn)

	apps := []hiring.Application{app}
	results := hiring.Resolve(apps, now.Next(), &generic.FixedRand{Floats: []float64{0}})
	assert.Empty(t, results)
	assert.Equal(t, hiring.StatusPending, apps[0].Status)

	// 0.6 < 0.65 -> accepted
	results = hiring.Resolve(apps, app.DecisionOn, &generic.FixedRand{Floats: []float64{0.6}})
	require.Len(t, results, 1)
	assert.Equal(t, hiring.StatusAccepted, results[0].Status)
	assert.Equal(t, hiring.StatusAccepted, apps[0].Status)

	// Already decided: not resolved twice
	results = hiring.Resolve(apps, app.DecisionOn.Next(), &generic.FixedRand{Floats: []float64{0.99}})
	assert.Empty(t, results)
}

func TestResolve_LateDecisionStillResolved(t *testing.T) {
	// A settlement opened after the decision month still resolves it.
	apps := []hiring.Application{{
		ID:         "a",
		Job:        catalog.Job{Title: "Dishwasher"},
		DecisionOn: generic.NewMonthDate(2026, time.March),
		MatchScore: 40,
		Status:     hiring.StatusPending,
	}}
	results := hiring.Resolve(apps, generic.NewMonthDate(2026, time.June), &generic.FixedRand{Floats: []float64{0.5}})
	require.Len(t, results, 1)
	assert.Equal(t, hiring.StatusRejected, results[0].Status)
}
