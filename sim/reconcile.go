package sim

import (
	"github.com/warp/lifesim/credit"
	"github.com/warp/lifesim/generic"
)

// =============================================================================
// RECONCILIATION
// =============================================================================

// CheckResult reports one line check.
type CheckResult struct {
	LineID      int           `json:"line_id"`
	Correct     bool          `json:"correct"`
	Expected    generic.Money `json:"expected"`
	Submitted   generic.Money `json:"submitted"`
	CreditDelta int           `json:"credit_delta"`
	Streak      int           `json:"streak"`
	// AutoLoan is set when the confirmed final balance was negative.
	AutoLoan generic.Money `json:"auto_loan"`
}

// CheckRow compares the player's running balance for a line of the stored
// ledger with the expected one. A correct answer within one cent extends the
// calculation streak and raises the score; a wrong one resets the streak and
// costs up to 30 points. A wrong answer is never an error.
//
// Confirming a negative final balance converts the shortfall into debt right
// away, so the month settles at zero.
func (e *Engine) CheckRow(s *State, lineID int, value generic.Money) (CheckResult, error) {
	if s.Ledger == nil {
		return CheckResult{}, generic.ErrLineNotFound
	}
	line, ok := s.Ledger.Line(lineID)
	if !ok {
		return CheckResult{}, generic.ErrLineNotFound
	}

	diff := value.Sub(line.RunningBalance)
	correct := generic.WithinCent(value, line.RunningBalance)
	before := s.CreditScore
	s.CreditScore, s.Streaks.Calculation = credit.ApplyCheck(s.CreditScore, s.Streaks.Calculation, correct, diff)

	res := CheckResult{
		LineID:      lineID,
		Correct:     correct,
		Expected:    line.RunningBalance,
		Submitted:   value,
		CreditDelta: s.CreditScore - before,
		Streak:      s.Streaks.Calculation,
		AutoLoan:    generic.Zero,
	}
	if !correct {
		return res, nil
	}

	s.Ledger.MarkVerified(lineID)
	if s.Ledger.IsLast(lineID) && line.RunningBalance.IsNegative() {
		res.AutoLoan = e.prefundShortfall(s, line.RunningBalance)
	}
	return res, nil
}

// prefundShortfall borrows the negative final balance into checking and
// rebuilds the ledger, keeping the lines already verified.
func (e *Engine) prefundShortfall(s *State, final generic.Money) generic.Money {
	loan := coverShortfall(&s.Accounts, final)
	s.logf(s.Date, "Auto-loan $%s to cover a negative balance", generic.FormatMoney(loan))

	verified := make([]bool, len(s.Ledger.Lines))
	for i, l := range s.Ledger.Lines {
		verified[i] = l.Verified
	}
	s.Ledger = e.BuildLedger(s, s.LedgerPayments)
	for i := range s.Ledger.Lines {
		if i < len(verified) && verified[i] {
			s.Ledger.Lines[i].Verified = true
		}
	}
	return loan
}

// coverShortfall is the one shortfall -> auto-loan rule. When balance is
// negative its magnitude X is added to both debt and checking, and X is
// returned. The month transition calls it with checking itself (leaving
// checking at zero); reconciliation calls it with the projected final
// balance (so the rebuilt ledger ends at zero).
func coverShortfall(acc *Accounts, balance generic.Money) generic.Money {
	if !balance.IsNegative() {
		return generic.Zero
	}
	x := balance.Neg()
	acc.Debt = acc.Debt.Add(x)
	acc.Checking = acc.Checking.Add(x)
	return x
}
