/*
ledger.go - Ordered line items with a running balance

PURPOSE:
  A Ledger is the itemised, auditable list of a month's expected cash flow.
  Each line carries the running balance AFTER applying it; that running
  balance is the value a player must reproduce by hand, so the ledger is the
  oracle for reconciliation.

CRITICAL INVARIANTS:
  1. ORDERED: Lines keep the order in which they were appended
  2. DERIVED: RunningBalance(i) = RunningBalance(i-1) +/- Amount(i)
  3. ROUNDED: Amounts and balances are rounded to cents per line
  4. DETERMINISTIC: Same appends = same ids, amounts and balances

CORRECTIONS:
  A ledger is never edited. Changing an input (payments, state) means
  building a new ledger from scratch.

EXAMPLE FLOW:
  l := generic.NewLedger(checking)            // "Previous Balance"
  l.Income("Net Salary: Clerk", salary)       // +salary
  l.Expense("Housing/Rent Payment", rent)     // -rent
  l.Final()                                   // balance after the last line

SEE ALSO:
  - sim/ledger.go: Builds the month's ledger from game state
  - sim/reconcile.go: Checks player answers against running balances
*/
package generic

// =============================================================================
// LINE ITEMS
// =============================================================================

type LineKind string

const (
	LineIncome  LineKind = "income"
	LineExpense LineKind = "expense"
	LineNeutral LineKind = "neutral"
)

// Line is one ledger row.
type Line struct {
	ID             int      `json:"id"`
	Description    string   `json:"description"`
	Amount         Money    `json:"amount"`
	Kind           LineKind `json:"kind"`
	RunningBalance Money    `json:"running_balance"`
	Verified       bool     `json:"verified"`
}

// Signed returns the line's effect on the balance.
func (l Line) Signed() Money {
	switch l.Kind {
	case LineIncome:
		return l.Amount
	case LineExpense:
		return l.Amount.Neg()
	default:
		return Zero
	}
}

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	Lines []Line `json:"lines"`
}

// NewLedger starts a ledger with a verified neutral opening line.
func NewLedger(opening Money) *Ledger {
	l := &Ledger{}
	l.append("Previous Balance", Zero, LineNeutral, Round2(opening))
	l.Lines[0].Verified = true
	return l
}

func (l *Ledger) Income(desc string, amount Money) Line {
	amount = Round2(amount)
	return l.append(desc, amount, LineIncome, Round2(l.Final().Add(amount)))
}

func (l *Ledger) Expense(desc string, amount Money) Line {
	amount = Round2(amount)
	return l.append(desc, amount, LineExpense, Round2(l.Final().Sub(amount)))
}

func (l *Ledger) append(desc string, amount Money, kind LineKind, balance Money) Line {
	line := Line{
		ID:             len(l.Lines),
		Description:    desc,
		Amount:         amount,
		Kind:           kind,
		RunningBalance: balance,
	}
	l.Lines = append(l.Lines, line)
	return line
}

// Opening returns the balance before any line item.
func (l *Ledger) Opening() Money {
	if len(l.Lines) == 0 {
		return Zero
	}
	return l.Lines[0].RunningBalance
}

// Final returns the balance after the last line.
func (l *Ledger) Final() Money {
	if len(l.Lines) == 0 {
		return Zero
	}
	return l.Lines[len(l.Lines)-1].RunningBalance
}

// Line returns the line with the given id.
func (l *Ledger) Line(id int) (Line, bool) {
	if id < 0 || id >= len(l.Lines) {
		return Line{}, false
	}
	return l.Lines[id], true
}

// IsLast reports whether id is the final line.
func (l *Ledger) IsLast(id int) bool { return len(l.Lines) > 0 && id == len(l.Lines)-1 }

// MarkVerified flags the line as reproduced by the player.
func (l *Ledger) MarkVerified(id int) {
	if id >= 0 && id < len(l.Lines) {
		l.Lines[id].Verified = true
	}
}

// AllVerified reports whether every line has been checked.
func (l *Ledger) AllVerified() bool {
	for _, line := range l.Lines {
		if !line.Verified {
			return false
		}
	}
	return true
}

// Net returns the sum of signed amounts (Final - Opening).
func (l *Ledger) Net() Money {
	total := Zero
	for _, line := range l.Lines {
		total = total.Add(line.Signed())
	}
	return total
}
