package costs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/costs"
	"github.com/warp/lifesim/generic"
)

func money(s string) generic.Money { return generic.MustParseMoney(s) }

var categories = []costs.Category{costs.Utilities, costs.Food, costs.Gas, costs.Car, costs.Entertainment}

// =============================================================================
// VARIABLE COST MODEL
// =============================================================================

func TestVariableCost_Deterministic(t *testing.T) {
	// GIVEN: The same (base, date, locale, category, key)
	// WHEN: Computed twice
	// THEN: Identical result, so a reloaded save sees the same bills

	date := generic.NewMonthDate(2026, time.March)
	for _, cat := range categories {
		a := costs.VariableCost(money("250.00"), date, generic.NewRate(1.1), cat, "Chicago, US")
		b := costs.VariableCost(money("250.00"), date, generic.NewRate(1.1), cat, "Chicago, US")
		assert.True(t, a.Equal(b), "category %s", cat)
	}
}

func TestVariableCost_WithinBounds(t *testing.T) {
	// Every month and category stays within ±5% of base*locale.
	base := money("1000.00")
	locale := generic.NewRate(1.2)
	lo := money("1140.00") // 1200 * 0.95
	hi := money("1260.00") // 1200 * 1.05

	for year := 2026; year <= 2030; year++ {
		for m := time.January; m <= time.December; m++ {
			date := generic.NewMonthDate(year, m)
			for _, cat := range categories {
				got := costs.VariableCost(base, date, locale, cat, "Berlin, Germany")
				assert.False(t, got.LessThan(lo), "%s %s: %s", date, cat, got)
				assert.False(t, got.GreaterThan(hi), "%s %s: %s", date, cat, got)
			}
		}
	}
}

func TestNoise_WithinRange(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		n := costs.Noise(generic.NewMonthDate(2027, m), costs.Food, "Tokyo, Japan")
		assert.GreaterOrEqual(t, n, -0.02)
		assert.LessOrEqual(t, n, 0.02)
	}
}

func TestNoise_VariesWithKey(t *testing.T) {
	date := generic.NewMonthDate(2026, time.July)
	seen := map[float64]bool{}
	for _, city := range catalog.Default().Cities() {
		seen[costs.Noise(date, costs.Gas, city.Name)] = true
	}
	assert.Greater(t, len(seen), 1, "noise should depend on the locale key")
}

// =============================================================================
// SHARED FORMULAS
// =============================================================================

func chicago(t *testing.T) catalog.City {
	t.Helper()
	city, ok := catalog.Default().City("Chicago, US")
	require.True(t, ok)
	return city
}

func TestNetSalary(t *testing.T) {
	p := costs.DefaultParams()
	assert.Equal(t, "528.00", generic.FormatMoney(p.NetSalary(money("600"), chicago(t))))
}

func TestRent(t *testing.T) {
	p := costs.DefaultParams()
	// 528 * 0.30 * 1.2
	assert.Equal(t, "190.08", generic.FormatMoney(p.Rent(money("528.00"), chicago(t))))
}

func TestEntertainmentCap(t *testing.T) {
	p := costs.DefaultParams()
	assert.Equal(t, "105.60", generic.FormatMoney(p.EntertainmentCap(money("528.00"))))
	assert.Equal(t, "500.00", generic.FormatMoney(p.EntertainmentCap(money("9000.00"))))
}

func TestMaintenanceAgeFactor(t *testing.T) {
	p := costs.DefaultParams()
	assert.True(t, p.MaintenanceAgeFactor(0).Equal(generic.One))
	assert.True(t, p.MaintenanceAgeFactor(47).Equal(generic.One), "3 whole years is still free")
	assert.True(t, p.MaintenanceAgeFactor(48).Equal(generic.NewRate(1.2)))
	assert.True(t, p.MaintenanceAgeFactor(72).Equal(generic.NewRate(1.6)))
}

func TestVehicleMaintenance_GrowsWithAge(t *testing.T) {
	p := costs.DefaultParams()
	class := catalog.Default().MustVehicleClass("midrange")
	date := generic.NewMonthDate(2026, time.May)
	young := p.VehicleMaintenance(class, 12, date, chicago(t))
	old := p.VehicleMaintenance(class, 72, date, chicago(t))
	assert.True(t, old.GreaterThan(young))
}

func TestVehicleValue(t *testing.T) {
	cat := catalog.Default()
	class := cat.MustVehicleClass("midrange") // 18% new, 10% used yearly
	price := money("12000.00")

	assert.Equal(t, "12000.00", generic.FormatMoney(costs.VehicleValue(price, class, true, 0)))

	// One month new: 12000 * (1 - 0.18/12)
	assert.Equal(t, "11820.00", generic.FormatMoney(costs.VehicleValue(price, class, true, 1)))
	// One month used: 12000 * (1 - 0.10/12)
	assert.Equal(t, "11900.00", generic.FormatMoney(costs.VehicleValue(price, class, false, 1)))

	// Never increases
	prev := price
	for m := 1; m <= 120; m++ {
		v := costs.VehicleValue(price, class, true, m)
		assert.False(t, v.GreaterThan(prev), "month %d", m)
		prev = v
	}
}

func TestServiceCost(t *testing.T) {
	p := costs.DefaultParams()
	cat := catalog.Default()

	// Chef replaces food: 10 x (5000 * 12%)
	chef := p.ServiceCost(cat.MustService(catalog.ServiceChef), money("5000"))
	assert.Equal(t, "6000.00", generic.FormatMoney(chef))

	trainer := p.ServiceCost(cat.MustService(catalog.ServiceTrainer), money("5000"))
	assert.Equal(t, "1500.00", generic.FormatMoney(trainer))
}

func TestRelocationAndTransport(t *testing.T) {
	p := costs.DefaultParams()
	sf := catalog.Default().MustCity("San Francisco, US")

	assert.Equal(t, "3450.00", generic.FormatMoney(p.RelocationCost(sf)))
	assert.Equal(t, "600.00", generic.FormatMoney(p.TransportCost(1200)))
	assert.Equal(t, "3000.00", generic.FormatMoney(p.TransportCost(15000)))
}
