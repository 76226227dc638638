package costs

import (
	"github.com/shopspring/decimal"

	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/generic"
)

// =============================================================================
// PARAMETERS
// =============================================================================

// Params are the tunable constants of the cost formulas. Percentages are
// shares of net salary.
type Params struct {
	TaxRate        generic.Rate  `json:"tax_rate"`
	RentShare      generic.Rate  `json:"rent_share"`
	FoodShare      generic.Rate  `json:"food_share"`
	UtilitiesShare generic.Rate  `json:"utilities_share"`
	GasShare       generic.Rate  `json:"gas_share"`
	PhoneInternet  generic.Money `json:"phone_internet"`

	EntertainmentShare generic.Rate  `json:"entertainment_share"`
	EntertainmentMax   generic.Money `json:"entertainment_max"`

	// ChefFoodMultiple: a personal chef costs this many times the food base.
	ChefFoodMultiple generic.Rate `json:"chef_food_multiple"`

	MonthlyKm          generic.Rate  `json:"monthly_km"`
	ReferenceMileage   generic.Rate  `json:"reference_mileage"`
	MaintenanceBase    generic.Money `json:"maintenance_base"`
	MaintenanceAgeFree int           `json:"maintenance_age_free_years"`
	MaintenanceAgeStep generic.Rate  `json:"maintenance_age_step"`

	RelocationBase   generic.Money `json:"relocation_base"`
	TransportPerKm   generic.Money `json:"transport_per_km"`
	TransportCostMax generic.Money `json:"transport_cost_max"`
}

func DefaultParams() Params {
	return Params{
		TaxRate:        generic.Pct(20),
		RentShare:      generic.Pct(30),
		FoodShare:      generic.Pct(12),
		UtilitiesShare: generic.Pct(6),
		GasShare:       generic.Pct(8),
		PhoneInternet:  generic.NewMoneyFromInt(65),

		EntertainmentShare: generic.Pct(20),
		EntertainmentMax:   generic.NewMoneyFromInt(500),

		ChefFoodMultiple: decimal.NewFromInt(10),

		MonthlyKm:          decimal.NewFromInt(1000),
		ReferenceMileage:   decimal.NewFromInt(24),
		MaintenanceBase:    generic.NewMoneyFromInt(120),
		MaintenanceAgeFree: 3,
		MaintenanceAgeStep: generic.Pct(20),

		RelocationBase:   generic.NewMoneyFromInt(1500),
		TransportPerKm:   generic.NewMoney(0.5),
		TransportCostMax: generic.NewMoneyFromInt(3000),
	}
}

// =============================================================================
// INCOME & HOUSING
// =============================================================================

// NetSalary is base pay scaled by the city and taxed at a flat rate.
func (p Params) NetSalary(basePay generic.Money, city catalog.City) generic.Money {
	return generic.Round2(basePay.Mul(city.PayMultiplier).Mul(generic.One.Sub(p.TaxRate)))
}

func (p Params) Rent(netSalary generic.Money, city catalog.City) generic.Money {
	return generic.Round2(netSalary.Mul(p.RentShare).Mul(city.RentMultiplier))
}

// =============================================================================
// LIVING COSTS
// =============================================================================

// FoodBase is the unadjusted monthly grocery budget.
func (p Params) FoodBase(netSalary generic.Money) generic.Money {
	return generic.Round2(netSalary.Mul(p.FoodShare))
}

func (p Params) Food(netSalary generic.Money, date generic.MonthDate, city catalog.City) generic.Money {
	return VariableCost(p.FoodBase(netSalary), date, generic.One, Food, city.Name)
}

func (p Params) Utilities(netSalary generic.Money, date generic.MonthDate, city catalog.City) generic.Money {
	return VariableCost(generic.Round2(netSalary.Mul(p.UtilitiesShare)), date, generic.One, Utilities, city.Name)
}

// CommuteGas is the gas and upkeep of getting around without an owned car
// (rideshare, transit passes beyond the flat tier cost).
func (p Params) CommuteGas(netSalary generic.Money, date generic.MonthDate, city catalog.City) generic.Money {
	return VariableCost(generic.Round2(netSalary.Mul(p.GasShare)), date, generic.One, Gas, city.Name)
}

// EntertainmentCap bounds the discretionary spending a player may choose.
func (p Params) EntertainmentCap(netSalary generic.Money) generic.Money {
	return generic.MinMoney(generic.Round2(netSalary.Mul(p.EntertainmentShare)), p.EntertainmentMax)
}

func (p Params) Entertainment(amount generic.Money, date generic.MonthDate, city catalog.City) generic.Money {
	if !amount.IsPositive() {
		return generic.Zero
	}
	return VariableCost(amount, date, generic.One, Entertainment, city.Name)
}

// =============================================================================
// VEHICLES
// =============================================================================

// VehicleGas: cost per km over the monthly distance, scaled by how thirsty
// the class is relative to the reference mileage.
func (p Params) VehicleGas(model catalog.VehicleModel, class catalog.VehicleClass, date generic.MonthDate, city catalog.City) generic.Money {
	base := model.CostPerKm.Mul(p.MonthlyKm).Mul(p.ReferenceMileage).Div(class.GasMileage)
	return VariableCost(generic.Round2(base), date, city.PayMultiplier, Gas, city.Name)
}

// MaintenanceAgeFactor grows linearly by MaintenanceAgeStep for every whole
// year beyond MaintenanceAgeFree.
func (p Params) MaintenanceAgeFactor(ageMonths int) generic.Rate {
	years := ageMonths / 12
	extra := years - p.MaintenanceAgeFree
	if extra <= 0 {
		return generic.One
	}
	return generic.One.Add(p.MaintenanceAgeStep.Mul(decimal.NewFromInt(int64(extra))))
}

func (p Params) VehicleMaintenance(class catalog.VehicleClass, ageMonths int, date generic.MonthDate, city catalog.City) generic.Money {
	base := p.MaintenanceBase.Mul(class.MaintenanceFactor).Mul(p.MaintenanceAgeFactor(ageMonths))
	return VariableCost(generic.Round2(base), date, city.PayMultiplier, Car, city.Name)
}

// VehicleValue depreciates price monthly: the class's new-car rate during the
// first year of a new purchase, the used rate afterwards (and from the first
// month for used purchases). Rates are yearly.
func VehicleValue(price generic.Money, class catalog.VehicleClass, purchasedNew bool, monthsOwned int) generic.Money {
	if monthsOwned <= 0 {
		return generic.Round2(price)
	}
	newMonths := 0
	if purchasedNew {
		newMonths = min(monthsOwned, 12)
	}
	usedMonths := monthsOwned - newMonths

	value := price
	if newMonths > 0 {
		keep := generic.One.Sub(class.DepreciationNew.Div(generic.Twelve))
		value = value.Mul(keep.Pow(decimal.NewFromInt(int64(newMonths))))
	}
	if usedMonths > 0 {
		keep := generic.One.Sub(class.DepreciationUsed.Div(generic.Twelve))
		value = value.Mul(keep.Pow(decimal.NewFromInt(int64(usedMonths))))
	}
	return generic.NonNegative(generic.Round2(value))
}

// =============================================================================
// LUXURY & RELOCATION
// =============================================================================

// ServiceCost is the monthly price of a luxury service. The chef scales with
// the food budget it replaces; everything else is the catalog flat rate.
func (p Params) ServiceCost(svc catalog.Service, netSalary generic.Money) generic.Money {
	if svc.ID == catalog.ServiceChef {
		return generic.Round2(p.FoodBase(netSalary).Mul(p.ChefFoodMultiple))
	}
	return svc.Monthly
}

// RelocationCost is the fixed cost of moving into a city.
func (p Params) RelocationCost(dest catalog.City) generic.Money {
	return generic.Round2(p.RelocationBase.Mul(dest.RentMultiplier))
}

// TransportCost ships belongings over distanceKm, capped.
func (p Params) TransportCost(distanceKm float64) generic.Money {
	cost := generic.Round2(p.TransportPerKm.Mul(decimal.NewFromFloat(distanceKm)))
	return generic.MinMoney(cost, p.TransportCostMax)
}
