package sim

import (
	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/generic"
)

// =============================================================================
// NEW-GAME PRESETS
// =============================================================================

// Preset describes a starting situation.
type Preset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	apply func(cat *catalog.Catalog, s *State)
}

var presets = []Preset{
	{
		ID:          "default",
		Name:        "Fresh Start",
		Description: "$1,200 in checking, no debt, odd jobs in Chicago",
		apply:       func(*catalog.Catalog, *State) {},
	},
	{
		ID:          "in-debt",
		Name:        "In Debt",
		Description: "$5,000 of card debt, a 540 score and $400 to your name",
		apply: func(_ *catalog.Catalog, s *State) {
			s.Accounts.Checking = generic.NewMoneyFromInt(400)
			s.Accounts.Debt = generic.NewMoneyFromInt(5000)
			s.CreditScore = 540
		},
	},
	{
		ID:          "graduate",
		Name:        "Fresh Graduate",
		Description: "A bachelor's degree, $20,000 of student loans and a 680 score",
		apply: func(_ *catalog.Catalog, s *State) {
			s.Accounts.Checking = generic.NewMoneyFromInt(2500)
			s.Accounts.Debt = generic.NewMoneyFromInt(20000)
			s.CreditScore = 680
			s.Credentials = []string{"HS Diploma", "Bachelors Degree"}
			s.CredentialHistory = []CredentialEntry{
				{Name: "HS Diploma", Type: catalog.CourseDegree, Completed: s.Date.AddMonths(-48), Months: 1},
				{Name: "Bachelors Degree", Type: catalog.CourseDegree, Completed: s.Date.AddMonths(-1), Months: 24},
			}
		},
	},
}

// Presets lists the available starting situations.
func Presets() []Preset { return presets }

// NewGame creates a state from a preset ("" is the default) and builds its
// first ledger.
func (e *Engine) NewGame(player string, seed uint64, presetID string) (*State, error) {
	if presetID == "" {
		presetID = "default"
	}
	for _, p := range presets {
		if p.ID != presetID {
			continue
		}
		s := NewState(e.Catalog, player, seed)
		p.apply(e.Catalog, s)
		e.RefreshLedger(s, Payments{})
		return s, nil
	}
	return nil, &generic.UnknownReferenceError{Kind: "preset", Name: presetID}
}
