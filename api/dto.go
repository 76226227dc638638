/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Game state, ledgers and
  outcomes already carry JSON tags and are returned as they are; the types
  here cover request bodies and the few responses that wrap several values.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY:
  Amounts are decimal strings ("1200.5") or JSON numbers on the way in and
  decimal strings on the way out.

VALIDATION:
  Validation is done in the engine, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/generic"
	"github.com/warp/lifesim/hiring"
	"github.com/warp/lifesim/sim"
)

// =============================================================================
// GAME
// =============================================================================

// NewGameRequest starts a game. An empty preset means "default".
type NewGameRequest struct {
	Preset string `json:"preset"`
}

// PaymentsRequest carries the player's proposed payments for the month.
type PaymentsRequest struct {
	Savings generic.Money `json:"savings"`
	Debt    generic.Money `json:"debt"`
	Skip    bool          `json:"skip"`
}

func (p PaymentsRequest) payments() sim.Payments {
	return sim.Payments{Savings: p.Savings, Debt: p.Debt, Skip: p.Skip}
}

// CheckRowRequest submits the player's running balance for one line.
type CheckRowRequest struct {
	Value generic.Money `json:"value"`
}

// CheckRowResponse is the check result plus the refreshed state.
type CheckRowResponse struct {
	Result sim.CheckResult `json:"result"`
	State  *sim.State      `json:"state"`
}

// MonthResponse is returned by the month and settlement endpoints. The
// transition is committed even when AutosaveError is set.
type MonthResponse struct {
	Outcome       *sim.Outcome `json:"outcome,omitempty"`
	State         *sim.State   `json:"state"`
	AutosaveError string       `json:"autosave_error,omitempty"`
}

// SettlementResponse lists the applications decided this month.
type SettlementResponse struct {
	Results       []hiring.Result `json:"results"`
	State         *sim.State      `json:"state"`
	AutosaveError string          `json:"autosave_error,omitempty"`
}

// =============================================================================
// CAREER
// =============================================================================

type ApplyRequest struct {
	Title string `json:"title"`
}

type NegotiateRequest struct {
	Percent float64 `json:"percent"`
}

// =============================================================================
// STAGING
// =============================================================================

type EnrollRequest struct {
	Course string `json:"course"`
}

type TransitRequest struct {
	Tier string `json:"tier"`
}

type RelocateRequest struct {
	City         string `json:"city"`
	NoticeMonths int    `json:"notice_months"`
}

type EntertainmentRequest struct {
	Amount generic.Money `json:"amount"`
}

// EntertainmentDTO reports the budget actually set after clamping.
type EntertainmentDTO struct {
	Requested generic.Money `json:"requested"`
	Set       generic.Money `json:"set"`
}

type ServiceRequest struct {
	Enabled bool `json:"enabled"`
}

// =============================================================================
// VEHICLES
// =============================================================================

type BuyVehicleRequest struct {
	ModelID string           `json:"model_id"`
	Mode    sim.PurchaseMode `json:"mode"`
}

// ListVehicleRequest puts a vehicle on the market. A zero price lists it at
// its current value.
type ListVehicleRequest struct {
	Price generic.Money `json:"price"`
}

// VehicleCatalogDTO is the vehicle showroom.
type VehicleCatalogDTO struct {
	Classes []catalog.VehicleClass `json:"classes"`
	Models  []catalog.VehicleModel `json:"models"`
}

// =============================================================================
// SAVES
// =============================================================================

type SaveRequest struct {
	Name string `json:"name"`
}

type RenameSaveRequest struct {
	Name string `json:"name"`
}

// =============================================================================
// PRESETS & ERRORS
// =============================================================================

// PresetDTO represents a new-game preset.
type PresetDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
