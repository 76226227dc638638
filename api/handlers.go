/*
handlers.go - HTTP API handlers for the life simulation

PURPOSE:
  Exposes game sessions via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to session.Session. No game rule lives here.

ENDPOINTS:
  Reference data:
    GET    /api/presets                         New-game presets
    GET    /api/catalog/{jobs,courses,transit,cities,vehicles,services}

  Game (all under /api/users/{user}):
    POST   /game                    Start a game (optional preset)
    GET    /game                    Current state
    POST   /ledger                  Build the ledger for proposed payments
    POST   /ledger/{line}/check     Check one running balance
    POST   /month                   Process the month
    GET    /loans                   Debt summary (?payment=)

  Career:
    GET    /applications            List applications
    POST   /applications            Apply for a job
    POST   /applications/{id}/accept
    POST   /settlement              Resolve due applications
    POST   /negotiate               Ask for a raise

  Staging:
    POST   /enroll, DELETE /enroll
    POST   /transit
    POST   /relocate, DELETE /relocate
    POST   /entertainment
    PUT    /services/{id}

  Vehicles:
    POST   /vehicles                Buy
    POST   /vehicles/{id}/list
    POST   /vehicles/{id}/unlist
    POST   /vehicles/{id}/primary

  Saves:
    GET    /saves, POST /saves
    DELETE /saves/{name}
    POST   /saves/{name}/load
    POST   /saves/{name}/rename

REQUEST FLOW:
  1. Parse HTTP request
  2. Look up the user's session
  3. Call the session (which calls the engine)
  4. Serialize response
  5. Map errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Refusals caused by input (prerequisites, cooldown, funds...)
  - 404: Unknown names, ids, slots, or no game yet
  - 409: Duplicate application, slot name taken
  - 500: Persistence and internal errors
  A failed autosave after a committed month is NOT an error response: the
  month happened, so the body carries autosave_error instead.

SECURITY NOTE:
  No authentication. The {user} path segment is trusted as given.

SEE ALSO:
  - dto.go: Request/response data structures
  - presets.go: New-game presets
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/generic"
	"github.com/warp/lifesim/session"
	"github.com/warp/lifesim/sim"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Sessions *session.Registry
	Catalog  *catalog.Catalog

	logger *log.Logger
}

// NewHandler creates a new handler over a session registry.
func NewHandler(sessions *session.Registry, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handler{
		Sessions: sessions,
		Catalog:  sessions.Engine().Catalog,
		logger:   logger,
	}
}

func (h *Handler) session(r *http.Request) *session.Session {
	return h.Sessions.Get(chi.URLParam(r, "user"))
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Jobs())
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Courses())
}

func (h *Handler) ListTransit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.TransitTiers())
}

func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Cities())
}

func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VehicleCatalogDTO{
		Classes: h.Catalog.VehicleClasses(),
		Models:  h.Catalog.Vehicles(),
	})
}

func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Services())
}

// =============================================================================
// GAME HANDLERS
// =============================================================================

// NewGame starts a game for the user, replacing any current one.
func (h *Handler) NewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	st, err := h.session(r).NewGame(r.Context(), req.Preset)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// GetGame returns the current state.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	st, err := h.session(r).State()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// BuildLedger returns the month's ledger for the proposed payments.
func (h *Handler) BuildLedger(w http.ResponseWriter, r *http.Request) {
	var req PaymentsRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	l, err := h.session(r).BuildLedger(req.payments())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// CheckRow verifies one running balance.
func (h *Handler) CheckRow(w http.ResponseWriter, r *http.Request) {
	line, err := strconv.Atoi(chi.URLParam(r, "line"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid line id", err)
		return
	}
	var req CheckRowRequest
	if !decode(w, r, &req) {
		return
	}

	sess := h.session(r)
	res, err := sess.CheckRow(line, req.Value)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeWithState(w, sess, func(st *sim.State) any {
		return CheckRowResponse{Result: res, State: st}
	})
}

// ProcessMonth commits the month.
func (h *Handler) ProcessMonth(w http.ResponseWriter, r *http.Request) {
	var req PaymentsRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	sess := h.session(r)
	out, err := sess.ProcessMonth(r.Context(), req.payments())
	if errors.Is(err, generic.ErrNoGame) {
		h.writeDomainError(w, err)
		return
	}
	h.writeWithState(w, sess, func(st *sim.State) any {
		return MonthResponse{Outcome: &out, State: st, AutosaveError: errString(err)}
	})
}

// Loans summarizes the debt. ?payment= overrides the minimum payment.
func (h *Handler) Loans(w http.ResponseWriter, r *http.Request) {
	payment := generic.Zero
	if v := r.URL.Query().Get("payment"); v != "" {
		p, err := decimal.NewFromString(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid payment", err)
			return
		}
		payment = p
	}
	sum, err := h.session(r).Loans(payment)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// =============================================================================
// CAREER HANDLERS
// =============================================================================

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	st, err := h.session(r).State()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Applications)
}

func (h *Handler) ApplyForJob(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if !decode(w, r, &req) {
		return
	}
	app, err := h.session(r).ApplyForJob(req.Title)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *Handler) AcceptJob(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if err := sess.AcceptJob(chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeState(w, sess)
}

// OpenSettlement resolves every application whose decision is due.
func (h *Handler) OpenSettlement(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	results, err := sess.OpenSettlement(r.Context())
	if errors.Is(err, generic.ErrNoGame) {
		h.writeDomainError(w, err)
		return
	}
	h.writeWithState(w, sess, func(st *sim.State) any {
		return SettlementResponse{Results: results, State: st, AutosaveError: errString(err)}
	})
}

func (h *Handler) NegotiatePay(w http.ResponseWriter, r *http.Request) {
	var req NegotiateRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.session(r).NegotiatePay(req.Percent)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// =============================================================================
// STAGING HANDLERS
// =============================================================================

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req EnrollRequest
	if !decode(w, r, &req) {
		return
	}
	sess := h.session(r)
	if err := sess.Enroll(req.Course); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeState(w, sess)
}

func (h *Handler) DropCourse(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if err := sess.DropCourse(); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeState(w, sess)
}

func (h *Handler) StageTransit(w http.ResponseWriter, r *http.Request) {
	var req TransitRequest
	if !decode(w, r, &req) {
		return
	}
	sess := h.session(r)
	if err := sess.StageTransit(req.Tier); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeState(w, sess)
}

func (h *Handler) StageRelocation(w http.ResponseWriter, r *http.Request) {
	var req RelocateRequest
	if !decode(w, r, &req) {
		return
	}
	reloc, err := h.session(r).StageRelocation(req.City, req.NoticeMonths)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reloc)
}

func (h *Handler) CancelRelocation(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if err := sess.CancelRelocation(); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeState(w, sess)
}

func (h *Handler) SetEntertainment(w http.ResponseWriter, r *http.Request) {
	var req EntertainmentRequest
	if !decode(w, r, &req) {
		return
	}
	set, err := h.session(r).SetEntertainment(req.Amount)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EntertainmentDTO{Requested: req.Amount, Set: set})
}

func (h *Handler) SetLuxuryService(w http.ResponseWriter, r *http.Request) {
	var req ServiceRequest
	if !decode(w, r, &req) {
		return
	}
	sess := h.session(r)
	if err := sess.SetLuxuryService(catalog.ServiceID(chi.URLParam(r, "id")), req.Enabled); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeState(w, sess)
}

// =============================================================================
// VEHICLE HANDLERS
// =============================================================================

func (h *Handler) BuyVehicle(w http.ResponseWriter, r *http.Request) {
	var req BuyVehicleRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.session(r).BuyVehicle(req.ModelID, req.Mode)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) ListVehicle(w http.ResponseWriter, r *http.Request) {
	var req ListVehicleRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	sess := h.session(r)
	if err := sess.ListVehicle(chi.URLParam(r, "id"), req.Price); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeState(w, sess)
}

func (h *Handler) UnlistVehicle(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if err := sess.UnlistVehicle(chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeState(w, sess)
}

func (h *Handler) SetPrimaryVehicle(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if err := sess.SetPrimaryVehicle(chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeState(w, sess)
}

// =============================================================================
// SAVE HANDLERS
// =============================================================================

func (h *Handler) ListSaves(w http.ResponseWriter, r *http.Request) {
	slots, err := h.session(r).ListSaves(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if slots == nil {
		slots = []generic.SlotInfo{}
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *Handler) SaveGame(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if !decode(w, r, &req) {
		return
	}
	sess := h.session(r)
	if err := sess.Save(r.Context(), req.Name); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.ListSaves(w, r)
}

func (h *Handler) DeleteSave(w http.ResponseWriter, r *http.Request) {
	if err := h.session(r).DeleteSave(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LoadSave(w http.ResponseWriter, r *http.Request) {
	st, err := h.session(r).Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) RenameSave(w http.ResponseWriter, r *http.Request) {
	var req RenameSaveRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.session(r).RenameSave(r.Context(), chi.URLParam(r, "name"), req.Name); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.ListSaves(w, r)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine and session errors to a status.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func statusFor(err error) (int, string) {
	switch {
	case generic.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case generic.IsConflict(err):
		return http.StatusConflict, "conflict"
	case generic.IsClientError(err):
		return http.StatusBadRequest, "refused"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (h *Handler) writeState(w http.ResponseWriter, sess *session.Session) {
	h.writeWithState(w, sess, func(st *sim.State) any { return st })
}

func (h *Handler) writeWithState(w http.ResponseWriter, sess *session.Session, body func(st *sim.State) any) {
	st, err := sess.State()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body(st))
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// decodeOptional is decode for endpoints whose body may be empty.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
