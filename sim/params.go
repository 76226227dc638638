package sim

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/costs"
	"github.com/warp/lifesim/generic"
)

// Params are the tunables of the engine. Cost formulas live in Costs so the
// ledger and the transition read the same numbers.
type Params struct {
	Costs costs.Params `json:"costs"`

	// HYSARate is the yearly savings rate, accrued monthly at /12.
	HYSARate generic.Rate `json:"hysa_rate"`

	LoanTermMonths       int `json:"loan_term_months"`
	LeaseTermMonths      int `json:"lease_term_months"`
	UsedVehicleAgeMonths int `json:"used_vehicle_age_months"`

	// A listed vehicle sells with probability
	// min(monthsOnMarket/SaleRampMonths, MaxSaleProbability).
	SaleRampMonths     int     `json:"sale_ramp_months"`
	MaxSaleProbability float64 `json:"max_sale_probability"`

	NegotiationCooldownMonths int `json:"negotiation_cooldown_months"`

	AutoBumpMinScore       int          `json:"auto_bump_min_score"`
	AutoBumpMinTenure      int          `json:"auto_bump_min_tenure"`
	AutoBumpCooldownMonths int          `json:"auto_bump_cooldown_months"`
	AutoBumpRate           generic.Rate `json:"auto_bump_rate"`
}

func DefaultParams() Params {
	return Params{
		Costs:                     costs.DefaultParams(),
		HYSARate:                  generic.Pct(4),
		LoanTermMonths:            60,
		LeaseTermMonths:           36,
		UsedVehicleAgeMonths:      36,
		SaleRampMonths:            6,
		MaxSaleProbability:        0.8,
		NegotiationCooldownMonths: 6,
		AutoBumpMinScore:          800,
		AutoBumpMinTenure:         12,
		AutoBumpCooldownMonths:    12,
		AutoBumpRate:              decimal.RequireFromString("0.03"),
	}
}

// Engine binds the catalog and tunables. It holds no game state; every call
// receives the State it operates on.
type Engine struct {
	Catalog *catalog.Catalog
	Params  Params

	// NewID names applications and vehicles.
	NewID func() string
}

func NewEngine(cat *catalog.Catalog, params Params) *Engine {
	return &Engine{Catalog: cat, Params: params, NewID: uuid.NewString}
}
