package sim

import (
	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/generic"
)

// Payments are the player's choices for the month.
type Payments struct {
	Savings generic.Money `json:"savings"`
	Debt    generic.Money `json:"debt"`
	// Skip declares a skipped debt payment; Debt is ignored.
	Skip bool `json:"skip"`
}

// effective clamps the requested payments: savings is never negative and
// the debt payment lies in [0, debt].
func (p Payments) effective(debt generic.Money) Payments {
	out := Payments{Savings: generic.NonNegative(p.Savings), Debt: generic.Zero, Skip: p.Skip}
	if !p.Skip {
		out.Debt = generic.ClampMoney(p.Debt, generic.Zero, generic.NonNegative(debt))
	}
	return out
}

// =============================================================================
// LEDGER BUILDER
// =============================================================================

// BuildLedger derives this month's ledger from the pre-advance state and the
// proposed payments. It is pure: same state and payments, same lines.
//
// Line order:
//
//	Previous Balance (checking - payments), Net Salary, Housing,
//	Transit / commute gas, Utilities, Phone & Internet, Groceries,
//	Entertainment, Tuition, per-vehicle payment/gas/maintenance,
//	Luxury Services
func (e *Engine) BuildLedger(s *State, p Payments) *generic.Ledger {
	l, _ := e.buildLedger(s, p)
	return l
}

// buildLedger also returns the sum of the vehicle lines.
func (e *Engine) buildLedger(s *State, p Payments) (*generic.Ledger, generic.Money) {
	cp := e.Params.Costs
	pay := p.effective(s.Accounts.Debt)
	date, city := s.Date, s.City

	l := generic.NewLedger(s.Accounts.Checking.Sub(pay.Savings).Sub(pay.Debt))

	job := s.EffectiveJob()
	net := cp.NetSalary(job.BasePay, city)
	l.Income("Net Salary: "+job.Title, net)

	l.Expense("Housing/Rent Payment", cp.Rent(net, city))

	if !s.ServiceActive(catalog.ServiceChauffeur) {
		hasCar := s.HasPrimaryVehicle()
		// The owned-vehicle tier is paid through the vehicle's own lines.
		if !(hasCar && s.Transit.Level == 4) {
			l.Expense("Transit: "+s.Transit.Name, s.Transit.MonthlyCost)
		}
		if s.Transit.Level > 1 && !hasCar {
			l.Expense("Commute Gas & Upkeep", cp.CommuteGas(net, date, city))
		}
	}

	l.Expense("Utilities", cp.Utilities(net, date, city))
	l.Expense("Phone & Internet", cp.PhoneInternet)

	if !s.ServiceActive(catalog.ServiceChef) {
		l.Expense("Groceries", cp.Food(net, date, city))
	}

	if s.Entertainment.IsPositive() {
		l.Expense("Entertainment", cp.Entertainment(s.Entertainment, date, city))
	}

	if s.Education != nil {
		course := e.Catalog.MustCourse(s.Education.CourseName)
		l.Expense("Tuition: "+course.Name, course.MonthlyCost)
	}

	vehicleTotal := generic.Zero
	for _, v := range s.Vehicles {
		for _, c := range e.vehicleCharges(s, v) {
			l.Expense(c.desc, c.amount)
			vehicleTotal = vehicleTotal.Add(c.amount)
		}
	}

	if luxury := e.luxuryTotal(s, net); luxury.IsPositive() {
		l.Expense("Luxury Services", luxury)
	}

	return l, vehicleTotal
}

type charge struct {
	desc   string
	amount generic.Money
}

// vehicleCharges are the monthly lines of one garage vehicle.
func (e *Engine) vehicleCharges(s *State, v Vehicle) []charge {
	model := e.Catalog.MustVehicle(v.ModelID)
	class := e.Catalog.MustVehicleClass(model.Class)
	cp := e.Params.Costs

	var out []charge
	if v.MonthsRemaining > 0 {
		label := "Loan Payment: "
		if v.Financing == FinanceLease {
			label = "Lease Payment: "
		}
		out = append(out, charge{label + model.Name, v.MonthlyPayment})
	}
	out = append(out,
		charge{"Gas: " + model.Name, cp.VehicleGas(model, class, s.Date, s.City)},
		charge{"Maintenance: " + model.Name, cp.VehicleMaintenance(class, v.AgeMonths(s.Date), s.Date, s.City)},
	)
	return out
}

// luxuryTotal sums the enabled services in catalog order.
func (e *Engine) luxuryTotal(s *State, net generic.Money) generic.Money {
	total := generic.Zero
	for _, svc := range e.Catalog.Services() {
		if s.ServiceActive(svc.ID) {
			total = total.Add(e.Params.Costs.ServiceCost(svc, net))
		}
	}
	return total
}

// NetSalary is the effective job's monthly take-home pay in the current city.
func (e *Engine) NetSalary(s *State) generic.Money {
	return e.Params.Costs.NetSalary(s.EffectiveJob().BasePay, s.City)
}

// RefreshLedger rebuilds the stored ledger for p and remembers p for checks.
// Lines keep their verified flag when their running balance is unchanged.
func (e *Engine) RefreshLedger(s *State, p Payments) *generic.Ledger {
	fresh := e.BuildLedger(s, p)
	if s.Ledger != nil {
		for i := range fresh.Lines {
			if old, ok := s.Ledger.Line(i); ok && old.Verified &&
				old.Description == fresh.Lines[i].Description &&
				old.RunningBalance.Equal(fresh.Lines[i].RunningBalance) {
				fresh.Lines[i].Verified = true
			}
		}
	}
	s.Ledger = fresh
	s.LedgerPayments = p
	return fresh
}
