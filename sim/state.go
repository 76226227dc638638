/*
Package sim is the monthly life-finance engine.

PURPOSE:
  Owns the game state and the one transition that advances it a month. Every
  month the player receives a ledger (income, housing, transport, living,
  tuition, vehicle and luxury lines with a running balance), checks the
  running balance line by line, then confirms the month. The engine settles
  the month, drains staged changes in a fixed order, services debt and
  savings, and moves the calendar.

KEY CONCEPTS:
  - State: The single mutable aggregate. Only the Engine mutates it, through
    ProcessMonth, CheckRow, and the staging operations.
  - PendingChanges: Job, transit and relocation changes staged by the player
    and applied at the next month boundary.
  - Ledger: Derived each cycle. It is the oracle for the month's cash flow;
    ProcessMonth settles checking to the ledger's final balance.
  - Auto-loan: A negative balance is never kept. The shortfall becomes debt
    (see coverShortfall), both when reconciling and when processing.

SINGLE WRITER:
  The engine is not safe for concurrent use on the same State. The session
  layer serializes access per player.

SEE ALSO:
  - sim/ledger.go: Ledger builder
  - sim/reconcile.go: Line checks and score discipline
  - sim/month.go: The month transition
  - costs/: Formulas shared by ledger and transition
*/
package sim

import (
	"fmt"
	"slices"
	"time"

	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/generic"
	"github.com/warp/lifesim/hiring"
)

// =============================================================================
// STATE
// =============================================================================

type State struct {
	Player string            `json:"player"`
	Date   generic.MonthDate `json:"date"`

	Accounts    Accounts `json:"accounts"`
	CreditScore int      `json:"credit_score"`
	Streaks     Streaks  `json:"streaks"`

	Job           catalog.Job       `json:"job"`
	JobStart      generic.MonthDate `json:"job_start"`
	TenureMonths  int               `json:"tenure_months"`
	CareerHistory []CareerEntry     `json:"career_history"`

	Credentials       []string          `json:"credentials"`
	CredentialHistory []CredentialEntry `json:"credential_history"`
	Education         *Enrollment       `json:"education,omitempty"`

	Transit catalog.TransitTier `json:"transit"`
	City    catalog.City        `json:"city"`
	Pending PendingChanges      `json:"pending"`

	Vehicles       []Vehicle `json:"vehicles"`
	PrimaryVehicle string    `json:"primary_vehicle,omitempty"`

	LuxuryServices map[catalog.ServiceID]bool `json:"luxury_services"`
	Entertainment  generic.Money              `json:"entertainment"`

	Applications      []hiring.Application `json:"applications"`
	SettlementResults []hiring.Result      `json:"settlement_results,omitempty"`
	ShowSettlement    bool                 `json:"show_settlement"`

	// Ledger is derived; it is kept so that checks survive a reload.
	Ledger         *generic.Ledger `json:"ledger,omitempty"`
	LedgerPayments Payments        `json:"ledger_payments"`

	Log         []LogEntry  `json:"log"`
	Celebration Celebration `json:"celebration,omitempty"`

	LastNegotiation generic.MonthDate `json:"last_negotiation"`
	LastAutoBump    generic.MonthDate `json:"last_auto_bump"`

	Seed generic.SeedState `json:"seed"`
}

// Accounts are never negative after a committed transition.
type Accounts struct {
	Checking generic.Money `json:"checking"`
	Savings  generic.Money `json:"savings"`
	Debt     generic.Money `json:"debt"`
}

type Streaks struct {
	Payment     int `json:"payment"`
	Calculation int `json:"calculation"`
}

type CareerEntry struct {
	Title  string            `json:"title"`
	Start  generic.MonthDate `json:"start"`
	End    generic.MonthDate `json:"end"`
	Months int               `json:"months"`
}

type CredentialEntry struct {
	Name      string             `json:"name"`
	Type      catalog.CourseType `json:"type"`
	Completed generic.MonthDate  `json:"completed"`
	Months    int                `json:"months"`
}

type Enrollment struct {
	CourseName    string `json:"course_name"`
	MonthsAccrued int    `json:"months_accrued"`
}

// PendingChanges is the intent queue drained by ProcessMonth, in the order
// education, transit, relocation check, job, relocation commit.
type PendingChanges struct {
	Job     *catalog.Job         `json:"job,omitempty"`
	Transit *catalog.TransitTier `json:"transit,omitempty"`
	City    *Relocation          `json:"city,omitempty"`
}

// Relocation is a staged move. It applies once the calendar reaches Scheduled.
type Relocation struct {
	City           catalog.City      `json:"city"`
	Scheduled      generic.MonthDate `json:"scheduled"`
	RelocationCost generic.Money     `json:"relocation_cost"`
	TransportCost  generic.Money     `json:"transport_cost"`
	DistanceKm     float64           `json:"distance_km"`
}

type LogEntry struct {
	Date    generic.MonthDate `json:"date"`
	Message string            `json:"message"`
}

// Celebration is a UI notification tag. Only the latest one is kept.
type Celebration string

const (
	CelebrateDegree        Celebration = "degree"
	CelebrateCertification Celebration = "certification"
	CelebratePromotion     Celebration = "promotion"
	CelebrateNewJob        Celebration = "job-accepted"
	CelebrateDebtFree      Celebration = "debt-free"
	CelebratePayBump       Celebration = "pay-bump"
)

// =============================================================================
// QUERIES
// =============================================================================

// EffectiveJob is the job whose salary this month's ledger pays: the staged
// job if any, else the current one.
func (s *State) EffectiveJob() catalog.Job {
	if s.Pending.Job != nil {
		return *s.Pending.Job
	}
	return s.Job
}

func (s *State) HasCredential(name string) bool {
	return slices.Contains(s.Credentials, name)
}

func (s *State) credentialSet() map[string]bool {
	set := make(map[string]bool, len(s.Credentials))
	for _, c := range s.Credentials {
		set[c] = true
	}
	return set
}

func (s *State) ServiceActive(id catalog.ServiceID) bool {
	return s.LuxuryServices[id]
}

func (s *State) Vehicle(id string) (*Vehicle, bool) {
	for i := range s.Vehicles {
		if s.Vehicles[i].ID == id {
			return &s.Vehicles[i], true
		}
	}
	return nil, false
}

func (s *State) HasPrimaryVehicle() bool {
	_, ok := s.Vehicle(s.PrimaryVehicle)
	return s.PrimaryVehicle != "" && ok
}

// logf appends to the audit log, dated at date.
func (s *State) logf(date generic.MonthDate, format string, args ...any) {
	s.Log = append(s.Log, LogEntry{Date: date, Message: fmt.Sprintf(format, args...)})
}

// Clone returns a deep copy. The engine works on a clone during a transition
// and swaps it in at the end.
func (s *State) Clone() *State {
	c := *s
	c.CareerHistory = slices.Clone(s.CareerHistory)
	c.Credentials = slices.Clone(s.Credentials)
	c.CredentialHistory = slices.Clone(s.CredentialHistory)
	c.Vehicles = slices.Clone(s.Vehicles)
	c.Applications = slices.Clone(s.Applications)
	c.SettlementResults = slices.Clone(s.SettlementResults)
	c.Log = slices.Clone(s.Log)
	if s.Education != nil {
		e := *s.Education
		c.Education = &e
	}
	if s.Pending.Job != nil {
		j := *s.Pending.Job
		c.Pending.Job = &j
	}
	if s.Pending.Transit != nil {
		t := *s.Pending.Transit
		c.Pending.Transit = &t
	}
	if s.Pending.City != nil {
		r := *s.Pending.City
		c.Pending.City = &r
	}
	if s.LuxuryServices != nil {
		c.LuxuryServices = make(map[catalog.ServiceID]bool, len(s.LuxuryServices))
		for k, v := range s.LuxuryServices {
			c.LuxuryServices[k] = v
		}
	}
	if s.Ledger != nil {
		c.Ledger = &generic.Ledger{Lines: slices.Clone(s.Ledger.Lines)}
	}
	return &c
}

// =============================================================================
// NEW GAME
// =============================================================================

const (
	startingCity    = "Chicago, US"
	startingCredit  = 600
	startingPay     = 600
	startingBalance = 1200
)

var startingDate = generic.NewMonthDate(2026, time.February)

// NewState returns a fresh game: $1200 in checking, no savings or debt,
// credit 600, doing odd jobs on foot in Chicago in February 2026.
func NewState(cat *catalog.Catalog, player string, seed uint64) *State {
	job := cat.MustJob(catalog.FallbackJobTitle)
	job.BasePay = generic.NewMoneyFromInt(startingPay)
	s := &State{
		Player:         player,
		Date:           startingDate,
		Accounts:       Accounts{Checking: generic.NewMoneyFromInt(startingBalance), Savings: generic.Zero, Debt: generic.Zero},
		CreditScore:    startingCredit,
		Job:            job,
		JobStart:       startingDate,
		Transit:        cat.TransitTiers()[0],
		City:           cat.MustCity(startingCity),
		LuxuryServices: map[catalog.ServiceID]bool{},
		Entertainment:  generic.Zero,
		Seed:           generic.SeedState{Root: seed},
	}
	s.logf(s.Date, "New game started in %s", s.City.Name)
	return s
}
