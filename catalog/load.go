package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/lifesim/generic"
)

// =============================================================================
// YAML SCHEMA TYPES
// =============================================================================

// rawCatalog mirrors the YAML files. Every file fills one or two keys; files
// are merged before validation so cross-file references (job -> course,
// vehicle -> class) can be checked.
type rawCatalog struct {
	Jobs     []rawJob     `yaml:"jobs"`
	Courses  []rawCourse  `yaml:"courses"`
	Transit  []rawTransit `yaml:"transit"`
	Cities   []rawCity    `yaml:"cities"`
	Classes  []rawClass   `yaml:"classes"`
	Vehicles []rawVehicle `yaml:"vehicles"`
	Services []rawService `yaml:"services"`
}

type rawJob struct {
	Title     string  `yaml:"title"`
	Base      float64 `yaml:"base"`
	Education string  `yaml:"education"`
	Cert      string  `yaml:"cert"`
	Transit   int     `yaml:"transit"`
	Odds      float64 `yaml:"odds"`
	Category  string  `yaml:"category"`
}

type rawCourse struct {
	Name   string  `yaml:"name"`
	Months int     `yaml:"months"`
	Cost   float64 `yaml:"cost"`
	Type   string  `yaml:"type"`
	Prereq string  `yaml:"prereq"`
}

type rawTransit struct {
	Name  string  `yaml:"name"`
	Cost  float64 `yaml:"cost"`
	Level int     `yaml:"level"`
}

type rawCity struct {
	Name string  `yaml:"name"`
	Pay  float64 `yaml:"pay"`
	Rent float64 `yaml:"rent"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

type rawClass struct {
	ID                string  `yaml:"id"`
	Name              string  `yaml:"name"`
	MaintenanceFactor float64 `yaml:"maintenance_factor"`
	GasMileage        float64 `yaml:"gas_mileage"`
	DepreciationNew   float64 `yaml:"depreciation_new"`
	DepreciationUsed  float64 `yaml:"depreciation_used"`
}

type rawVehicle struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Class      string  `yaml:"class"`
	Body       string  `yaml:"body"`
	NewPrice   float64 `yaml:"new_price"`
	UsedPrice  float64 `yaml:"used_price"`
	LeasePrice float64 `yaml:"lease_price"`
	Year       int     `yaml:"year"`
	CostPerKm  float64 `yaml:"cost_per_km"`
}

type rawService struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Monthly     float64 `yaml:"monthly"`
	MinSalary   float64 `yaml:"min_salary"`
	Substitutes string  `yaml:"substitutes"`
}

func (r *rawCatalog) merge(o rawCatalog) {
	r.Jobs = append(r.Jobs, o.Jobs...)
	r.Courses = append(r.Courses, o.Courses...)
	r.Transit = append(r.Transit, o.Transit...)
	r.Cities = append(r.Cities, o.Cities...)
	r.Classes = append(r.Classes, o.Classes...)
	r.Vehicles = append(r.Vehicles, o.Vehicles...)
	r.Services = append(r.Services, o.Services...)
}

// =============================================================================
// BUILD & VALIDATE
// =============================================================================

// build converts the raw records and validates them. All problems are
// collected so a broken data file reports everything at once.
func build(raw rawCatalog) (*Catalog, error) {
	c := &Catalog{
		jobByTitle:    make(map[string]int),
		courseByName:  make(map[string]int),
		transitByName: make(map[string]int),
		cityByName:    make(map[string]int),
		classByID:     make(map[string]int),
		vehicleByID:   make(map[string]int),
		serviceByID:   make(map[ServiceID]int),
	}
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	for _, rc := range raw.Courses {
		switch {
		case rc.Name == "":
			fail("course without name")
			continue
		case rc.Months <= 0:
			fail("course %q: duration must be positive", rc.Name)
		case rc.Type != string(CourseDegree) && rc.Type != string(CourseCert):
			fail("course %q: unknown type %q", rc.Name, rc.Type)
		}
		if _, dup := c.courseByName[rc.Name]; dup {
			fail("course %q defined twice", rc.Name)
			continue
		}
		c.courseByName[rc.Name] = len(c.courses)
		c.courses = append(c.courses, Course{
			Name:           rc.Name,
			DurationMonths: rc.Months,
			MonthlyCost:    generic.NewMoney(rc.Cost),
			Type:           CourseType(rc.Type),
			Prerequisite:   rc.Prereq,
		})
	}
	for _, course := range c.courses {
		if course.Prerequisite != "" {
			if _, ok := c.courseByName[course.Prerequisite]; !ok {
				fail("course %q: unknown prerequisite %q", course.Name, course.Prerequisite)
			}
		}
	}

	for _, rt := range raw.Transit {
		if rt.Name == "" {
			fail("transit tier without name")
			continue
		}
		if rt.Level < 1 || rt.Level > 5 {
			fail("transit %q: level %d out of range 1..5", rt.Name, rt.Level)
		}
		if _, dup := c.transitByName[rt.Name]; dup {
			fail("transit %q defined twice", rt.Name)
			continue
		}
		c.transitByName[rt.Name] = len(c.transit)
		c.transit = append(c.transit, TransitTier{
			Name:        rt.Name,
			MonthlyCost: generic.NewMoney(rt.Cost),
			Level:       rt.Level,
		})
	}

	for _, rj := range raw.Jobs {
		if rj.Title == "" {
			fail("job without title")
			continue
		}
		if rj.Base <= 0 {
			fail("job %q: base pay must be positive", rj.Title)
		}
		if rj.Transit < 1 || rj.Transit > 5 {
			fail("job %q: transit requirement %d out of range 1..5", rj.Title, rj.Transit)
		}
		if rj.Odds < 0 || rj.Odds > 1 {
			fail("job %q: hire odds %v out of range", rj.Title, rj.Odds)
		}
		// Certificate requirements may name credentials not taught by the
		// academy (licences earned elsewhere); only education is checked.
		if rj.Education != "" {
			if _, ok := c.courseByName[rj.Education]; !ok {
				fail("job %q: unknown education requirement %q", rj.Title, rj.Education)
			}
		}
		if _, dup := c.jobByTitle[rj.Title]; dup {
			fail("job %q defined twice", rj.Title)
			continue
		}
		c.jobByTitle[rj.Title] = len(c.jobs)
		c.jobs = append(c.jobs, Job{
			Title:             rj.Title,
			BasePay:           generic.NewMoney(rj.Base),
			EducationRequired: rj.Education,
			CertRequired:      rj.Cert,
			TransitRequired:   rj.Transit,
			HireOdds:          rj.Odds,
			Category:          rj.Category,
		})
	}
	if len(c.jobs) > 0 {
		if _, ok := c.jobByTitle[FallbackJobTitle]; !ok {
			fail("job board has no %q fallback", FallbackJobTitle)
		}
	}

	for _, rc := range raw.Cities {
		if rc.Name == "" {
			fail("city without name")
			continue
		}
		if rc.Pay <= 0 || rc.Rent <= 0 {
			fail("city %q: multipliers must be positive", rc.Name)
		}
		if rc.Lat < -90 || rc.Lat > 90 || rc.Lon < -180 || rc.Lon > 180 {
			fail("city %q: coordinates out of range", rc.Name)
		}
		if _, dup := c.cityByName[rc.Name]; dup {
			fail("city %q defined twice", rc.Name)
			continue
		}
		c.cityByName[rc.Name] = len(c.cities)
		c.cities = append(c.cities, City{
			Name:           rc.Name,
			PayMultiplier:  decimal.NewFromFloat(rc.Pay),
			RentMultiplier: decimal.NewFromFloat(rc.Rent),
			Lat:            rc.Lat,
			Lon:            rc.Lon,
		})
	}

	for _, rc := range raw.Classes {
		if rc.ID == "" {
			fail("vehicle class without id")
			continue
		}
		if rc.GasMileage <= 0 {
			fail("vehicle class %q: gas mileage must be positive", rc.ID)
		}
		if _, dup := c.classByID[rc.ID]; dup {
			fail("vehicle class %q defined twice", rc.ID)
			continue
		}
		c.classByID[rc.ID] = len(c.classes)
		c.classes = append(c.classes, VehicleClass{
			ID:                rc.ID,
			Name:              rc.Name,
			MaintenanceFactor: decimal.NewFromFloat(rc.MaintenanceFactor),
			GasMileage:        decimal.NewFromFloat(rc.GasMileage),
			DepreciationNew:   decimal.NewFromFloat(rc.DepreciationNew),
			DepreciationUsed:  decimal.NewFromFloat(rc.DepreciationUsed),
		})
	}

	for _, rv := range raw.Vehicles {
		if rv.ID == "" {
			fail("vehicle without id")
			continue
		}
		if _, ok := c.classByID[rv.Class]; !ok {
			fail("vehicle %q: unknown class %q", rv.ID, rv.Class)
		}
		if rv.NewPrice <= 0 || rv.UsedPrice <= 0 || rv.LeasePrice <= 0 {
			fail("vehicle %q: prices must be positive", rv.ID)
		}
		if _, dup := c.vehicleByID[rv.ID]; dup {
			fail("vehicle %q defined twice", rv.ID)
			continue
		}
		c.vehicleByID[rv.ID] = len(c.vehicles)
		c.vehicles = append(c.vehicles, VehicleModel{
			ID:         rv.ID,
			Name:       rv.Name,
			Class:      rv.Class,
			Body:       rv.Body,
			NewPrice:   generic.NewMoney(rv.NewPrice),
			UsedPrice:  generic.NewMoney(rv.UsedPrice),
			LeasePrice: generic.NewMoney(rv.LeasePrice),
			ModelYear:  rv.Year,
			CostPerKm:  generic.NewMoney(rv.CostPerKm),
		})
	}

	for _, rs := range raw.Services {
		if rs.ID == "" {
			fail("service without id")
			continue
		}
		switch rs.Substitutes {
		case "", "food", "transit":
		default:
			fail("service %q: unknown substitute %q", rs.ID, rs.Substitutes)
		}
		id := ServiceID(rs.ID)
		if _, dup := c.serviceByID[id]; dup {
			fail("service %q defined twice", rs.ID)
			continue
		}
		c.serviceByID[id] = len(c.services)
		c.services = append(c.services, Service{
			ID:          id,
			Name:        rs.Name,
			Monthly:     generic.NewMoney(rs.Monthly),
			MinSalary:   generic.NewMoney(rs.MinSalary),
			Substitutes: rs.Substitutes,
		})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}
