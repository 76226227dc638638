package sim

import (
	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/credit"
	"github.com/warp/lifesim/generic"
)

// =============================================================================
// MONTH TRANSITION
// =============================================================================

// Outcome summarizes what a transition did, for hosts and tests.
type Outcome struct {
	Ledger          *generic.Ledger `json:"ledger"`
	Payments        Payments        `json:"payments"`
	VehicleCosts    generic.Money   `json:"vehicle_costs"`
	AutoLoan        generic.Money   `json:"auto_loan"`
	DebtInterest    generic.Money   `json:"debt_interest"`
	SavingsInterest generic.Money   `json:"savings_interest"`
	VehiclesSold    []string        `json:"vehicles_sold,omitempty"`
	Relocated       bool            `json:"relocated"`
	JobChanged      bool            `json:"job_changed"`
	Warnings        []string        `json:"warnings,omitempty"`
}

// ProcessMonth advances s by one month. It never fails: out-of-range
// payments are clamped and any shortfall becomes debt.
//
// The month's cash flow is settled through the ledger for the submitted
// payments, so checking always ends where the ledger said it would (or at
// zero with the difference borrowed). Then, in order:
//
//  1. calendar advances with year rollover
//  2. vehicles: payments count down, leases end, listed cars may sell
//  3. checking := ledger final balance; savings += contribution
//  4. education progresses or graduates
//  5. staged transit is committed
//  6. a relocation due this month is picked up
//  7. debt -= payment, += relocation costs; negative checking -> auto-loan
//  8. staged job starts (career history, tenure reset) or tenure grows
//  9. relocation is committed; without a new job, Odd Jobs is staged
//  10. debt cleared -> celebration
//  11. debt interest and payment discipline
//  12. savings interest
//  13. automatic raise for excellent credit and tenure
//  14. warning when the job needs better transit than the player has
//  15. commit; the next ledger is built for zero payments
//
// rnd decides vehicle sales.
func (e *Engine) ProcessMonth(s *State, p Payments, rnd generic.Rand) Outcome {
	pay := p.effective(s.Accounts.Debt)
	ledger, vehicleCosts := e.buildLedger(s, pay)
	out := Outcome{
		Ledger:          ledger,
		Payments:        pay,
		VehicleCosts:    vehicleCosts,
		AutoLoan:        generic.Zero,
		DebtInterest:    generic.Zero,
		SavingsInterest: generic.Zero,
	}

	next := s.Clone()
	next.Celebration = ""

	// 1. Calendar
	date := s.Date.Next()
	next.Date = date

	// 2. Vehicles. Their costs are already ledger lines; here they age.
	saleProceeds := e.serviceVehicles(next, date, rnd, &out)

	// 3. Settle the month
	next.Accounts.Checking = ledger.Final()
	next.Accounts.Savings = s.Accounts.Savings.Add(pay.Savings).Add(saleProceeds)

	// 4. Education
	if next.Education != nil {
		e.progressEducation(next, date)
	}

	// 5. Transit
	if next.Pending.Transit != nil {
		next.Transit = *next.Pending.Transit
		next.Pending.Transit = nil
		next.logf(date, "Transit changed to %s", next.Transit.Name)
	}

	// 6. Relocation due?
	var move *Relocation
	if r := next.Pending.City; r != nil && !r.Scheduled.After(date) {
		move = r
	}

	// 7. Debt service and shortfall
	debtBefore := s.Accounts.Debt
	next.Accounts.Debt = debtBefore.Sub(pay.Debt)
	if move != nil {
		next.Accounts.Debt = next.Accounts.Debt.Add(move.RelocationCost).Add(move.TransportCost)
	}
	if loan := coverShortfall(&next.Accounts, next.Accounts.Checking); loan.IsPositive() {
		out.AutoLoan = loan
		next.logf(date, "Auto-loan $%s to cover a negative balance", generic.FormatMoney(loan))
	}

	// 8. Job change
	jobChanged := next.Pending.Job != nil
	if jobChanged {
		e.startPendingJob(next, date)
		out.JobChanged = true
	} else {
		next.TenureMonths++
	}

	// 9. Relocation commit
	if move != nil {
		next.City = move.City
		next.Pending.City = nil
		out.Relocated = true
		next.logf(date, "Relocated to %s (%.0f km, $%s moving costs)", move.City.Name, move.DistanceKm,
			generic.FormatMoney(move.RelocationCost.Add(move.TransportCost)))
		if !jobChanged {
			fallback := e.Catalog.MustJob(catalog.FallbackJobTitle)
			next.Pending.Job = &fallback
			next.logf(date, "Left %s after relocating; starting %s next month", next.Job.Title, fallback.Title)
		}
	}

	// 10. Debt cleared
	if debtBefore.IsPositive() && !next.Accounts.Debt.IsPositive() {
		next.Accounts.Debt = generic.Zero
		next.logf(date, "Debt eliminated")
		next.Celebration = CelebrateDebtFree
	}

	// 11. Interest and payment discipline
	if next.Accounts.Debt.IsPositive() {
		interest := credit.MonthlyInterest(next.Accounts.Debt, next.CreditScore)
		next.Accounts.Debt = next.Accounts.Debt.Add(interest)
		out.DebtInterest = interest

		outcome := credit.PaymentMissed
		switch {
		case pay.Skip:
			outcome = credit.PaymentSkipped
		case pay.Debt.IsPositive():
			outcome = credit.PaymentOnTime
		}
		before := next.CreditScore
		next.CreditScore, next.Streaks.Payment = credit.ApplyPayment(next.CreditScore, next.Streaks.Payment, outcome)
		next.logf(date, "Debt interest $%s; payment %s (credit %+d)", generic.FormatMoney(interest), outcome, next.CreditScore-before)
	}

	// 12. Savings interest
	if next.Accounts.Savings.IsPositive() {
		interest := generic.Round2(next.Accounts.Savings.Mul(e.Params.HYSARate).Div(generic.Twelve))
		next.Accounts.Savings = next.Accounts.Savings.Add(interest)
		out.SavingsInterest = interest
	}

	// 13. Automatic raise
	e.maybeAutoBump(next, date)

	// 14. Transit warning
	if next.Job.TransitRequired > next.Transit.Level {
		msg := "Warning: " + next.Job.Title + " requires better transportation; your job may be at risk"
		next.logf(date, "%s", msg)
		out.Warnings = append(out.Warnings, msg)
	}

	// 15. Commit
	next.ShowSettlement = false
	next.SettlementResults = nil
	next.Ledger = nil
	e.RefreshLedger(next, Payments{})
	*s = *next
	return out
}

// serviceVehicles counts down financing, ends leases and resolves sales.
// It returns the sale proceeds.
func (e *Engine) serviceVehicles(s *State, date generic.MonthDate, rnd generic.Rand, out *Outcome) generic.Money {
	proceeds := generic.Zero
	var gone []string
	for i := range s.Vehicles {
		v := &s.Vehicles[i]
		name := e.Catalog.MustVehicle(v.ModelID).Name

		if v.MonthsRemaining > 0 {
			v.MonthsRemaining--
			if v.MonthsRemaining == 0 {
				if v.Financing == FinanceLease {
					s.logf(date, "Lease ended: %s returned", name)
					gone = append(gone, v.ID)
					continue
				}
				s.logf(date, "Paid off %s", name)
			}
		}

		if v.ForSale {
			v.MonthsOnMarket++
			if rnd.Float64() < e.saleProbability(v.MonthsOnMarket) {
				proceeds = proceeds.Add(v.ListPrice)
				s.logf(date, "Sold %s for $%s", name, generic.FormatMoney(v.ListPrice))
				out.VehiclesSold = append(out.VehiclesSold, v.ID)
				gone = append(gone, v.ID)
			}
		}
	}
	for _, id := range gone {
		s.removeVehicle(id)
	}
	return proceeds
}

func (e *Engine) progressEducation(s *State, date generic.MonthDate) {
	course := e.Catalog.MustCourse(s.Education.CourseName)
	s.Education.MonthsAccrued++
	if s.Education.MonthsAccrued < course.DurationMonths {
		s.logf(date, "Continued study: %s (%d/%d)", course.Name, s.Education.MonthsAccrued, course.DurationMonths)
		return
	}

	if !s.HasCredential(course.Name) {
		s.Credentials = append(s.Credentials, course.Name)
	}
	s.CredentialHistory = append(s.CredentialHistory, CredentialEntry{
		Name:      course.Name,
		Type:      course.Type,
		Completed: date,
		Months:    s.Education.MonthsAccrued,
	})
	s.logf(date, "Graduated: %s (%d mo)", course.Name, s.Education.MonthsAccrued)
	s.Education = nil
	if course.Type == catalog.CourseDegree {
		s.Celebration = CelebrateDegree
	} else {
		s.Celebration = CelebrateCertification
	}
}

func (e *Engine) startPendingJob(s *State, date generic.MonthDate) {
	prev := s.Job
	s.CareerHistory = append(s.CareerHistory, CareerEntry{
		Title:  prev.Title,
		Start:  s.JobStart,
		End:    date,
		Months: s.TenureMonths,
	})
	s.Job = *s.Pending.Job
	s.Pending.Job = nil
	s.JobStart = date
	s.TenureMonths = 0
	s.logf(date, "Started job: %s", s.Job.Title)
	if s.Job.BasePay.GreaterThan(prev.BasePay) {
		s.Celebration = CelebratePromotion
	} else {
		s.Celebration = CelebrateNewJob
	}
}

func (e *Engine) maybeAutoBump(s *State, date generic.MonthDate) {
	p := e.Params
	if s.CreditScore <= p.AutoBumpMinScore || s.TenureMonths < p.AutoBumpMinTenure {
		return
	}
	if since, ok := date.MonthsSince(s.LastAutoBump); ok && since < p.AutoBumpCooldownMonths {
		return
	}
	s.Job.BasePay = generic.Round2(s.Job.BasePay.Mul(generic.One.Add(p.AutoBumpRate)))
	s.LastAutoBump = date
	s.Celebration = CelebratePayBump
	s.logf(date, "Automatic raise: %s now pays $%s", s.Job.Title, generic.FormatMoney(s.Job.BasePay))
}
