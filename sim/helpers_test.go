package sim

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return newTestEngineWith(t, DefaultParams())
}

func newTestEngineWith(t *testing.T, params Params) *Engine {
	t.Helper()
	e := NewEngine(catalog.Default(), params)
	n := 0
	e.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return e
}

// freeLivingEngine charges nothing for living: the ledger only moves by the
// player's own payments.
func freeLivingEngine(t *testing.T) *Engine {
	t.Helper()
	p := DefaultParams()
	p.Costs.TaxRate = generic.One
	p.Costs.PhoneInternet = generic.Zero
	return newTestEngineWith(t, p)
}

func newTestGame(t *testing.T, e *Engine) *State {
	t.Helper()
	s, err := e.NewGame("tester", 42, "")
	require.NoError(t, err)
	return s
}

func money(s string) generic.Money { return generic.MustParseMoney(s) }

func assertMoney(t *testing.T, want string, got generic.Money, msgAndArgs ...any) {
	t.Helper()
	if !got.Equal(money(want)) {
		assert.Fail(t, fmt.Sprintf("money mismatch: want %s, got %s", want, got.StringFixed(2)), msgAndArgs...)
	}
}

func findLine(l *generic.Ledger, prefix string) (generic.Line, bool) {
	for _, line := range l.Lines {
		if strings.HasPrefix(line.Description, prefix) {
			return line, true
		}
	}
	return generic.Line{}, false
}

func descriptions(l *generic.Ledger) []string {
	out := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		out[i] = line.Description
	}
	return out
}

func logContains(s *State, fragment string) bool {
	for _, entry := range s.Log {
		if strings.Contains(entry.Message, fragment) {
			return true
		}
	}
	return false
}

func assertAccountsNonNegative(t *testing.T, s *State) {
	t.Helper()
	assert.False(t, s.Accounts.Checking.IsNegative(), "checking %s", s.Accounts.Checking)
	assert.False(t, s.Accounts.Savings.IsNegative(), "savings %s", s.Accounts.Savings)
	assert.False(t, s.Accounts.Debt.IsNegative(), "debt %s", s.Accounts.Debt)
}
