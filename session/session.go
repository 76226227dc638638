/*
Package session hosts one game per user.

PURPOSE:
  A Session owns a player's sim.State and serializes every operation on it
  (the engine is single-writer). It draws randomness from the state's
  persisted seed, keeps the stored ledger in step with staged changes, and
  autosaves after every committed month and settlement.

PERSISTENCE ORDER:
  1. The engine commits the transition in memory
  2. The autosave runs (with retry)
  3. A failed autosave is logged and reported; memory state stays as is

CONCURRENCY:
  Registry is safe for concurrent use. Each Session has its own mutex, so
  different users never contend.

SEE ALSO:
  - session/saves.go: Slot policy
  - sim/: The engine
*/
package session

import (
	"context"
	"io"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/generic"
	"github.com/warp/lifesim/hiring"
	"github.com/warp/lifesim/sim"
)

// =============================================================================
// REGISTRY
// =============================================================================

// Registry hands out the session of each user.
type Registry struct {
	engine *sim.Engine
	saves  *SaveManager
	logger *log.Logger
	seed   uint64

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates sessions that share engine and saves. A zero seed
// seeds every new game from the wall clock.
func NewRegistry(engine *sim.Engine, saves *SaveManager, logger *log.Logger, seed uint64) *Registry {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Registry{
		engine:   engine,
		saves:    saves,
		logger:   logger,
		seed:     seed,
		sessions: make(map[string]*Session),
	}
}

func (r *Registry) Engine() *sim.Engine { return r.engine }

// Get returns the user's session, creating an empty one on first use.
func (r *Registry) Get(userID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		s = &Session{
			user:   userID,
			engine: r.engine,
			saves:  r.saves,
			logger: r.logger.With("user", userID),
			seed:   r.seedFor(userID),
		}
		r.sessions[userID] = s
	}
	return s
}

func (r *Registry) seedFor(userID string) func() uint64 {
	if r.seed != 0 {
		base := generic.Derive(r.seed, userID)
		n := 0
		return func() uint64 {
			n++
			return generic.Derive(base, "game#"+strconv.Itoa(n))
		}
	}
	return func() uint64 { return uint64(time.Now().UnixNano()) }
}

// =============================================================================
// SESSION
// =============================================================================

type Session struct {
	user   string
	engine *sim.Engine
	saves  *SaveManager
	logger *log.Logger
	seed   func() uint64

	mu    sync.Mutex
	state *sim.State
}

func (s *Session) User() string { return s.user }

// NewGame replaces the current game with a fresh one from a preset.
func (s *Session) NewGame(ctx context.Context, presetID string) (*sim.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.engine.NewGame(s.user, s.seed(), presetID)
	if err != nil {
		return nil, err
	}
	s.state = st
	s.logger.Info("new game", "preset", presetID, "month", st.Date)
	return st.Clone(), nil
}

// State returns a copy of the current state.
func (s *Session) State() (*sim.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, generic.ErrNoGame
	}
	return s.state.Clone(), nil
}

// view runs fn on the live state under the lock without changing it.
func (s *Session) view(fn func(st *sim.State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return generic.ErrNoGame
	}
	fn(s.state)
	return nil
}

// mutate runs fn and, when it succeeds, rebuilds the ledger for the
// payments the player last proposed.
func (s *Session) mutate(fn func(st *sim.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return generic.ErrNoGame
	}
	if err := fn(s.state); err != nil {
		return err
	}
	s.engine.RefreshLedger(s.state, s.state.LedgerPayments)
	return nil
}

// =============================================================================
// MONTH CYCLE
// =============================================================================

// BuildLedger rebuilds the month's ledger for proposed payments.
func (s *Session) BuildLedger(p sim.Payments) (*generic.Ledger, error) {
	var l *generic.Ledger
	err := s.view(func(st *sim.State) {
		fresh := s.engine.RefreshLedger(st, p)
		l = &generic.Ledger{Lines: slices.Clone(fresh.Lines)}
	})
	return l, err
}

func (s *Session) CheckRow(lineID int, value generic.Money) (sim.CheckResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return sim.CheckResult{}, generic.ErrNoGame
	}
	return s.engine.CheckRow(s.state, lineID, value)
}

// ProcessMonth commits the month and autosaves. The outcome is valid even
// when err is set: err only reports a failed autosave.
func (s *Session) ProcessMonth(ctx context.Context, p sim.Payments) (sim.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return sim.Outcome{}, generic.ErrNoGame
	}
	rnd := s.state.Seed.Next("month")
	out := s.engine.ProcessMonth(s.state, p, rnd)
	s.logger.Info("month processed", "month", s.state.Date,
		"checking", s.state.Accounts.Checking, "debt", s.state.Accounts.Debt, "credit", s.state.CreditScore)
	return out, s.saves.Autosave(ctx, s.user, s.state)
}

// =============================================================================
// CAREER
// =============================================================================

func (s *Session) ApplyForJob(title string) (hiring.Application, error) {
	var app hiring.Application
	err := s.mutate(func(st *sim.State) error {
		seed := st.Seed
		var err error
		app, err = s.engine.ApplyForJob(st, title, st.Seed.Next("apply"))
		if err != nil {
			st.Seed = seed
		}
		return err
	})
	return app, err
}

// OpenSettlement resolves due applications and autosaves. As with
// ProcessMonth, err only reports the autosave once results exist.
func (s *Session) OpenSettlement(ctx context.Context) ([]hiring.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, generic.ErrNoGame
	}
	results := s.engine.OpenSettlement(s.state, s.state.Seed.Next("settlement"))
	s.logger.Info("settlement opened", "decided", len(results))
	return results, s.saves.Autosave(ctx, s.user, s.state)
}

func (s *Session) AcceptJob(applicationID string) error {
	return s.mutate(func(st *sim.State) error { return s.engine.AcceptJob(st, applicationID) })
}

func (s *Session) NegotiatePay(percent float64) (sim.NegotiationResult, error) {
	var res sim.NegotiationResult
	err := s.mutate(func(st *sim.State) error {
		var err error
		res, err = s.engine.NegotiatePay(st, percent)
		return err
	})
	return res, err
}

// =============================================================================
// STAGING
// =============================================================================

func (s *Session) Enroll(course string) error {
	return s.mutate(func(st *sim.State) error { return s.engine.Enroll(st, course) })
}

func (s *Session) DropCourse() error {
	return s.mutate(func(st *sim.State) error { return s.engine.DropCourse(st) })
}

func (s *Session) StageTransit(name string) error {
	return s.mutate(func(st *sim.State) error { return s.engine.StageTransit(st, name) })
}

func (s *Session) StageRelocation(city string, noticeMonths int) (*sim.Relocation, error) {
	var r *sim.Relocation
	err := s.mutate(func(st *sim.State) error {
		var err error
		r, err = s.engine.StageRelocation(st, city, noticeMonths)
		return err
	})
	if r != nil {
		c := *r
		r = &c
	}
	return r, err
}

func (s *Session) CancelRelocation() error {
	return s.mutate(func(st *sim.State) error { return s.engine.CancelRelocation(st) })
}

func (s *Session) SetEntertainment(amount generic.Money) (generic.Money, error) {
	var set generic.Money
	err := s.mutate(func(st *sim.State) error {
		var err error
		set, err = s.engine.SetEntertainment(st, amount)
		return err
	})
	return set, err
}

func (s *Session) SetLuxuryService(id catalog.ServiceID, on bool) error {
	return s.mutate(func(st *sim.State) error { return s.engine.SetLuxuryService(st, id, on) })
}

// =============================================================================
// GARAGE
// =============================================================================

func (s *Session) BuyVehicle(modelID string, mode sim.PurchaseMode) (sim.Vehicle, error) {
	var v sim.Vehicle
	err := s.mutate(func(st *sim.State) error {
		bought, err := s.engine.BuyVehicle(st, modelID, mode)
		if err != nil {
			return err
		}
		v = *bought
		return nil
	})
	return v, err
}

func (s *Session) ListVehicle(id string, price generic.Money) error {
	return s.mutate(func(st *sim.State) error { return s.engine.ListVehicle(st, id, price) })
}

func (s *Session) UnlistVehicle(id string) error {
	return s.mutate(func(st *sim.State) error { return s.engine.UnlistVehicle(st, id) })
}

func (s *Session) SetPrimaryVehicle(id string) error {
	return s.mutate(func(st *sim.State) error { return s.engine.SetPrimaryVehicle(st, id) })
}

func (s *Session) Loans(payment generic.Money) (sim.LoanSummary, error) {
	var sum sim.LoanSummary
	err := s.view(func(st *sim.State) { sum = s.engine.Loans(st, payment) })
	return sum, err
}

// =============================================================================
// SAVES
// =============================================================================

func (s *Session) Save(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return generic.ErrNoGame
	}
	return s.saves.Save(ctx, s.user, name, s.state)
}

// Load replaces the current game with a saved one. On failure the current
// game is kept.
func (s *Session) Load(ctx context.Context, name string) (*sim.State, error) {
	st, err := s.saves.Load(ctx, s.user, name)
	if err != nil {
		s.logger.Warn("load failed", "slot", name, "err", err)
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.Ledger == nil {
		s.engine.RefreshLedger(st, st.LedgerPayments)
	}
	s.state = st
	s.logger.Info("game loaded", "slot", name, "month", st.Date)
	return st.Clone(), nil
}

func (s *Session) ListSaves(ctx context.Context) ([]generic.SlotInfo, error) {
	return s.saves.List(ctx, s.user)
}

func (s *Session) DeleteSave(ctx context.Context, name string) error {
	return s.saves.Delete(ctx, s.user, name)
}

func (s *Session) RenameSave(ctx context.Context, oldName, newName string) error {
	return s.saves.Rename(ctx, s.user, oldName, newName)
}
