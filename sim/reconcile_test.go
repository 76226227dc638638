package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/lifesim/generic"
)

func TestCheckRow_StreakMonotonicity(t *testing.T) {
	// GIVEN: A fresh ledger
	// WHEN: N lines are checked correctly, then one incorrectly
	// THEN: The streak reaches N, then resets to 0

	e := newTestEngine(t)
	s := newTestGame(t, e)

	n := len(s.Ledger.Lines) - 1
	for id := 1; id <= n; id++ {
		res, err := e.CheckRow(s, id, s.Ledger.Lines[id].RunningBalance)
		require.NoError(t, err)
		assert.True(t, res.Correct)
		assert.Equal(t, id, res.Streak)
	}
	assert.Equal(t, n, s.Streaks.Calculation)
	assert.True(t, s.Ledger.AllVerified())

	res, err := e.CheckRow(s, 1, money("1"))
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, 0, s.Streaks.Calculation)
}

func TestCheckRow_CorrectWithinACent(t *testing.T) {
	e := newTestEngine(t)
	s := newTestGame(t, e)

	res, err := e.CheckRow(s, 1, money("1728.005"))

	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 2, res.CreditDelta)
	assert.Equal(t, 602, s.CreditScore)
}

func TestCheckRow_WrongAnswerCostsCredit(t *testing.T) {
	// GIVEN: Expected running balance 1728.00 on the salary line
	// WHEN: The player submits 1673.00 (off by 55)
	// THEN: ceil(55/10) = 6 points are lost and the line stays unverified

	e := newTestEngine(t)
	s := newTestGame(t, e)

	res, err := e.CheckRow(s, 1, money("1673"))

	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, -6, res.CreditDelta)
	assert.Equal(t, 594, s.CreditScore)
	assert.False(t, s.Ledger.Lines[1].Verified)
	assertMoney(t, "1728.00", res.Expected)
}

func TestCheckRow_UnknownLine(t *testing.T) {
	e := newTestEngine(t)
	s := newTestGame(t, e)

	_, err := e.CheckRow(s, 99, money("0"))
	assert.True(t, errors.Is(err, generic.ErrLineNotFound))

	s.Ledger = nil
	_, err = e.CheckRow(s, 0, money("0"))
	assert.True(t, errors.Is(err, generic.ErrLineNotFound))
}

func TestCheckRow_NegativeFinalBalancePrefunds(t *testing.T) {
	// GIVEN: A ledger for a $150 debt payment from $100 checking, ending at -50
	// WHEN: The player confirms the final balance
	// THEN: $50 is borrowed into checking, the rebuilt ledger ends at 0 and
	//       processing the month borrows nothing more

	e := freeLivingEngine(t)
	s := newTestGame(t, e)
	s.Accounts.Checking = money("100")
	s.Accounts.Debt = money("500")
	s.Transit.MonthlyCost = generic.Zero
	p := Payments{Debt: money("150")}
	e.RefreshLedger(s, p)
	last := len(s.Ledger.Lines) - 1
	for id := 1; id < last; id++ {
		_, err := e.CheckRow(s, id, s.Ledger.Lines[id].RunningBalance)
		require.NoError(t, err)
	}

	res, err := e.CheckRow(s, last, money("-50"))

	require.NoError(t, err)
	assertMoney(t, "50.00", res.AutoLoan)
	assertMoney(t, "150.00", s.Accounts.Checking)
	assertMoney(t, "550.00", s.Accounts.Debt)
	assertMoney(t, "0.00", s.Ledger.Final())
	assert.True(t, s.Ledger.Lines[1].Verified, "earlier checks survive the rebuild")
	assert.True(t, logContains(s, "Auto-loan $50.00"))

	out := e.ProcessMonth(s, p, &generic.FixedRand{})

	assert.True(t, out.AutoLoan.IsZero())
	assertMoney(t, "0.00", s.Accounts.Checking)
	assertMoney(t, "403.50", s.Accounts.Debt, "same outcome as borrowing at month end")
}

func TestCoverShortfall(t *testing.T) {
	acc := Accounts{Checking: money("-20"), Savings: generic.Zero, Debt: money("10")}

	x := coverShortfall(&acc, acc.Checking)

	assertMoney(t, "20.00", x)
	assertMoney(t, "0.00", acc.Checking)
	assertMoney(t, "30.00", acc.Debt)

	assert.True(t, coverShortfall(&acc, money("5")).IsZero())
	assertMoney(t, "30.00", acc.Debt)
}
