package sim

import (
	"fmt"

	"github.com/warp/lifesim/costs"
	"github.com/warp/lifesim/credit"
	"github.com/warp/lifesim/generic"
)

// =============================================================================
// GARAGE
// =============================================================================

type Financing string

const (
	FinanceLoan  Financing = "loan"
	FinanceLease Financing = "lease"
	FinanceCash  Financing = "cash"
)

type PurchaseMode string

const (
	BuyNew      PurchaseMode = "new"
	BuyUsed     PurchaseMode = "used"
	BuyLease    PurchaseMode = "lease"
	BuyCashNew  PurchaseMode = "cash-new"
	BuyCashUsed PurchaseMode = "cash-used"
)

// Vehicle is an owned, financed or leased car. ModelID references the
// vehicle catalog.
type Vehicle struct {
	ID              string            `json:"id"`
	ModelID         string            `json:"model_id"`
	Financing       Financing         `json:"financing"`
	PurchasePrice   generic.Money     `json:"purchase_price"`
	PurchaseDate    generic.MonthDate `json:"purchase_date"`
	AgeAtPurchase   int               `json:"age_at_purchase"`
	MonthlyPayment  generic.Money     `json:"monthly_payment"`
	MonthsRemaining int               `json:"months_remaining"`
	PurchasedNew    bool              `json:"purchased_new"`
	ForSale         bool              `json:"for_sale"`
	ListPrice       generic.Money     `json:"list_price"`
	MonthsOnMarket  int               `json:"months_on_market"`
}

func (v Vehicle) MonthsOwned(now generic.MonthDate) int {
	return max(0, generic.MonthsBetween(v.PurchaseDate, now))
}

// AgeMonths is the vehicle's age, counting the years it had before purchase.
func (v Vehicle) AgeMonths(now generic.MonthDate) int {
	return v.AgeAtPurchase + v.MonthsOwned(now)
}

// VehicleValue is the depreciated market value of a garage vehicle.
func (e *Engine) VehicleValue(s *State, v Vehicle) generic.Money {
	if v.Financing == FinanceLease {
		return generic.Zero
	}
	class := e.Catalog.MustVehicleClass(e.Catalog.MustVehicle(v.ModelID).Class)
	return costs.VehicleValue(v.PurchasePrice, class, v.PurchasedNew, v.MonthsOwned(s.Date))
}

// BuyVehicle adds a catalog vehicle to the garage. Financed purchases carry
// an amortized payment at the player's loan APR; leases pay the catalog
// lease price; cash purchases debit checking and may be refused with
// ErrInsufficientFunds. The first vehicle becomes the primary one.
func (e *Engine) BuyVehicle(s *State, modelID string, mode PurchaseMode) (*Vehicle, error) {
	model, ok := e.Catalog.Vehicle(modelID)
	if !ok {
		return nil, &generic.UnknownReferenceError{Kind: "vehicle", Name: modelID}
	}

	v := Vehicle{
		ID:           e.NewID(),
		ModelID:      model.ID,
		PurchaseDate: s.Date,
	}
	switch mode {
	case BuyNew, BuyCashNew:
		v.PurchasePrice = model.NewPrice
		v.PurchasedNew = true
	case BuyUsed, BuyCashUsed:
		v.PurchasePrice = model.UsedPrice
		v.AgeAtPurchase = e.Params.UsedVehicleAgeMonths
	case BuyLease:
		v.PurchasedNew = true
	default:
		return nil, fmt.Errorf("%w: purchase mode %q", generic.ErrInvalidAmount, mode)
	}

	switch mode {
	case BuyNew, BuyUsed:
		v.Financing = FinanceLoan
		v.MonthsRemaining = e.Params.LoanTermMonths
		v.MonthlyPayment = credit.AmortizedPayment(v.PurchasePrice, credit.LoanAPR(s.CreditScore), e.Params.LoanTermMonths)
	case BuyLease:
		v.Financing = FinanceLease
		v.MonthsRemaining = e.Params.LeaseTermMonths
		v.MonthlyPayment = model.LeasePrice
	default:
		if s.Accounts.Checking.LessThan(v.PurchasePrice) {
			return nil, &generic.InsufficientFundsError{Available: s.Accounts.Checking, Requested: v.PurchasePrice}
		}
		v.Financing = FinanceCash
		v.MonthlyPayment = generic.Zero
		s.Accounts.Checking = s.Accounts.Checking.Sub(v.PurchasePrice)
	}

	s.Vehicles = append(s.Vehicles, v)
	if !s.HasPrimaryVehicle() {
		s.PrimaryVehicle = v.ID
	}
	switch v.Financing {
	case FinanceCash:
		s.logf(s.Date, "Bought %s for $%s cash", model.Name, generic.FormatMoney(v.PurchasePrice))
	case FinanceLease:
		s.logf(s.Date, "Leased %s at $%s/mo for %d months", model.Name, generic.FormatMoney(v.MonthlyPayment), v.MonthsRemaining)
	default:
		s.logf(s.Date, "Financed %s: $%s/mo for %d months", model.Name, generic.FormatMoney(v.MonthlyPayment), v.MonthsRemaining)
	}
	added, _ := s.Vehicle(v.ID)
	return added, nil
}

// ListVehicle puts a vehicle on the market. A zero price lists it at its
// current depreciated value.
func (e *Engine) ListVehicle(s *State, id string, price generic.Money) error {
	v, ok := s.Vehicle(id)
	if !ok {
		return generic.ErrVehicleNotFound
	}
	if v.Financing == FinanceLease {
		return generic.ErrVehicleLeased
	}
	if price.IsNegative() {
		return generic.ErrInvalidAmount
	}
	if price.IsZero() {
		price = e.VehicleValue(s, *v)
	}
	v.ForSale = true
	v.ListPrice = generic.Round2(price)
	v.MonthsOnMarket = 0
	s.logf(s.Date, "Listed %s for $%s", e.Catalog.MustVehicle(v.ModelID).Name, generic.FormatMoney(v.ListPrice))
	return nil
}

func (e *Engine) UnlistVehicle(s *State, id string) error {
	v, ok := s.Vehicle(id)
	if !ok {
		return generic.ErrVehicleNotFound
	}
	v.ForSale = false
	v.ListPrice = generic.Zero
	v.MonthsOnMarket = 0
	s.logf(s.Date, "Took %s off the market", e.Catalog.MustVehicle(v.ModelID).Name)
	return nil
}

// SetPrimaryVehicle selects the vehicle that replaces transit costs. An
// empty id clears it.
func (e *Engine) SetPrimaryVehicle(s *State, id string) error {
	if id == "" {
		s.PrimaryVehicle = ""
		return nil
	}
	if _, ok := s.Vehicle(id); !ok {
		return generic.ErrVehicleNotFound
	}
	s.PrimaryVehicle = id
	return nil
}

// saleProbability ramps linearly with time on the market, capped.
func (e *Engine) saleProbability(monthsOnMarket int) float64 {
	ramp := float64(max(e.Params.SaleRampMonths, 1))
	return min(float64(monthsOnMarket)/ramp, e.Params.MaxSaleProbability)
}

// removeVehicle drops a vehicle and clears the primary reference if needed.
func (s *State) removeVehicle(id string) {
	for i := range s.Vehicles {
		if s.Vehicles[i].ID == id {
			s.Vehicles = append(s.Vehicles[:i], s.Vehicles[i+1:]...)
			break
		}
	}
	if s.PrimaryVehicle == id {
		s.PrimaryVehicle = ""
		if len(s.Vehicles) > 0 {
			s.PrimaryVehicle = s.Vehicles[0].ID
		}
	}
}
