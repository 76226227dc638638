package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/generic"
)

func TestBuildLedger_StartingGame(t *testing.T) {
	// GIVEN: A new game: $1200 checking, Odd Jobs at $600 base in Chicago (pay x1.1)
	// WHEN: The ledger is built with no payments
	// THEN: Previous Balance is 1200.00 and Net Salary is round2(600*1.1*0.8) = 528.00

	e := newTestEngine(t)
	s := newTestGame(t, e)

	l := e.BuildLedger(s, Payments{})

	require.NotEmpty(t, l.Lines)
	assert.Equal(t, "Previous Balance", l.Lines[0].Description)
	assertMoney(t, "1200.00", l.Lines[0].RunningBalance)
	assert.True(t, l.Lines[0].Verified)

	salary := l.Lines[1]
	assert.Equal(t, "Net Salary: Odd Jobs", salary.Description)
	assert.Equal(t, generic.LineIncome, salary.Kind)
	assertMoney(t, "528.00", salary.Amount)
	assertMoney(t, "1728.00", salary.RunningBalance)

	housing := l.Lines[2]
	assert.Equal(t, "Housing/Rent Payment", housing.Description)
	assertMoney(t, "190.08", housing.Amount)
}

func TestBuildLedger_LineOrder(t *testing.T) {
	e := newTestEngine(t)
	s := newTestGame(t, e)

	l := e.BuildLedger(s, Payments{})

	assert.Equal(t, []string{
		"Previous Balance",
		"Net Salary: Odd Jobs",
		"Housing/Rent Payment",
		"Transit: L1 - Walk/Bike",
		"Utilities",
		"Phone & Internet",
		"Groceries",
	}, descriptions(l))
}

func TestBuildLedger_Idempotent(t *testing.T) {
	// GIVEN: The same state and the same payments
	// WHEN: The ledger is built twice
	// THEN: Lines and running balances are identical

	e := newTestEngine(t)
	s := newTestGame(t, e)
	s.Accounts.Debt = money("800")
	s.Entertainment = money("50")
	p := Payments{Savings: money("100"), Debt: money("60")}

	first := e.BuildLedger(s, p)
	second := e.BuildLedger(s, p)

	assert.Equal(t, first, second)
}

func TestBuildLedger_RunningBalanceIsCumulative(t *testing.T) {
	e := newTestEngine(t)
	s := newTestGame(t, e)
	s.Entertainment = money("80")

	l := e.BuildLedger(s, Payments{})

	balance := l.Opening()
	for _, line := range l.Lines[1:] {
		balance = balance.Add(line.Signed())
		assert.True(t, balance.Equal(line.RunningBalance), "line %q", line.Description)
	}
	assert.True(t, l.Final().Equal(l.Opening().Add(l.Net())))
}

func TestBuildLedger_PaymentsReduceOpening(t *testing.T) {
	e := newTestEngine(t)
	s := newTestGame(t, e)
	s.Accounts.Debt = money("500")

	l := e.BuildLedger(s, Payments{Savings: money("100"), Debt: money("250")})

	assertMoney(t, "850.00", l.Opening())
}

func TestBuildLedger_ClampsPayments(t *testing.T) {
	// GIVEN: $300 of debt
	// WHEN: The player proposes a negative savings amount and $1000 toward debt
	// THEN: Savings counts as 0 and the debt payment as the $300 owed

	e := newTestEngine(t)
	s := newTestGame(t, e)
	s.Accounts.Debt = money("300")

	l := e.BuildLedger(s, Payments{Savings: money("-40"), Debt: money("1000")})

	assertMoney(t, "900.00", l.Opening())
}

func TestBuildLedger_SkipIgnoresDebtPayment(t *testing.T) {
	e := newTestEngine(t)
	s := newTestGame(t, e)
	s.Accounts.Debt = money("300")

	l := e.BuildLedger(s, Payments{Debt: money("100"), Skip: true})

	assertMoney(t, "1200.00", l.Opening())
}

func TestBuildLedger_PendingJobPaysThisMonth(t *testing.T) {
	e := newTestEngine(t)
	s := newTestGame(t, e)
	teller := e.Catalog.MustJob("Bank Teller")
	s.Pending.Job = &teller

	l := e.BuildLedger(s, Payments{})

	salary, ok := findLine(l, "Net Salary")
	require.True(t, ok)
	assert.Equal(t, "Net Salary: Bank Teller", salary.Description)
	assertMoney(t, "1672.00", salary.Amount)
}

func TestBuildLedger_CommuteGasAboveWalking(t *testing.T) {
	e := newTestEngine(t)
	s := newTestGame(t, e)
	s.Transit = e.Catalog.TransitTiers()[1]

	l := e.BuildLedger(s, Payments{})

	_, ok := findLine(l, "Commute Gas & Upkeep")
	assert.True(t, ok)
}

func TestBuildLedger_ChauffeurReplacesTransit(t *testing.T) {
	e := newTestEngine(t)
	s := newTestGame(t, e)
	s.Transit = e.Catalog.TransitTiers()[2]
	s.LuxuryServices[catalog.ServiceChauffeur] = true

	l := e.BuildLedger(s, Payments{})

	_, transit := findLine(l, "Transit:")
	_, gas := findLine(l, "Commute Gas")
	luxury, ok := findLine(l, "Luxury Services")
	assert.False(t, transit)
	assert.False(t, gas)
	require.True(t, ok)
	assertMoney(t, "3500.00", luxury.Amount)
}

func TestBuildLedger_ChefReplacesGroceries(t *testing.T) {
	// GIVEN: A $10,000 base job in Chicago (net 8800, food base 1056)
	// WHEN: The personal chef is on
	// THEN: Groceries disappear and the chef costs 10x the food base

	e := newTestEngine(t)
	s := newTestGame(t, e)
	s.Job.BasePay = money("10000")
	s.LuxuryServices[catalog.ServiceChef] = true

	l := e.BuildLedger(s, Payments{})

	_, groceries := findLine(l, "Groceries")
	luxury, ok := findLine(l, "Luxury Services")
	assert.False(t, groceries)
	require.True(t, ok)
	assertMoney(t, "10560.00", luxury.Amount)
}

func TestBuildLedger_EntertainmentAndTuition(t *testing.T) {
	e := newTestEngine(t)
	s := newTestGame(t, e)
	s.Entertainment = money("40")
	s.Education = &Enrollment{CourseName: "HS Diploma"}

	l := e.BuildLedger(s, Payments{})

	_, fun := findLine(l, "Entertainment")
	tuition, ok := findLine(l, "Tuition: HS Diploma")
	assert.True(t, fun)
	require.True(t, ok)
	assertMoney(t, "200.00", tuition.Amount)
}

func TestBuildLedger_VehicleLines(t *testing.T) {
	e := newTestEngine(t)
	s := newTestGame(t, e)
	_, err := e.BuyVehicle(s, "honda-civic-2024", BuyNew)
	require.NoError(t, err)

	l := e.BuildLedger(s, Payments{})

	for _, desc := range []string{"Loan Payment: Honda Civic", "Gas: Honda Civic", "Maintenance: Honda Civic"} {
		_, ok := findLine(l, desc)
		assert.True(t, ok, desc)
	}
	last := l.Lines[len(l.Lines)-1]
	assert.Equal(t, "Maintenance: Honda Civic", last.Description)
}

func TestBuildLedger_PaidOffVehicleHasNoPaymentLine(t *testing.T) {
	e := newTestEngine(t)
	s := newTestGame(t, e)
	v, err := e.BuyVehicle(s, "honda-civic-2024", BuyNew)
	require.NoError(t, err)
	v.MonthsRemaining = 0

	l := e.BuildLedger(s, Payments{})

	_, payment := findLine(l, "Loan Payment")
	_, gas := findLine(l, "Gas: Honda Civic")
	assert.False(t, payment)
	assert.True(t, gas)
}

func TestBuildLedger_OwnedVehicleTierAbsorbedByCar(t *testing.T) {
	// GIVEN: Transit tier L4 (owned vehicle) and a primary vehicle
	// WHEN: The ledger is built
	// THEN: The tier's flat cost is not charged on top of the car's own lines

	e := newTestEngine(t)
	s := newTestGame(t, e)
	s.Transit = e.Catalog.TransitTiers()[3]
	_, err := e.BuyVehicle(s, "honda-civic-2024", BuyLease)
	require.NoError(t, err)

	l := e.BuildLedger(s, Payments{})

	_, transit := findLine(l, "Transit:")
	_, gas := findLine(l, "Commute Gas")
	_, lease := findLine(l, "Lease Payment: Honda Civic")
	assert.False(t, transit)
	assert.False(t, gas)
	assert.True(t, lease)
}

func TestRefreshLedger_KeepsVerifiedLines(t *testing.T) {
	e := newTestEngine(t)
	s := newTestGame(t, e)

	_, err := e.CheckRow(s, 1, s.Ledger.Lines[1].RunningBalance)
	require.NoError(t, err)
	e.RefreshLedger(s, Payments{})

	assert.True(t, s.Ledger.Lines[1].Verified)
	assert.False(t, s.Ledger.Lines[2].Verified)
}
