/*
Package catalog provides the read-only reference data of the simulation.

PURPOSE:
  Job board, academy courses, transit tiers, cities, vehicle classes and
  models, and luxury services. The data lives in embedded YAML files and is
  parsed and validated ONCE at load time; every record afterwards has a fixed
  schema with explicit optional fields, so use sites never re-validate.

WHY YAML?
  - Content can be tuned without code changes
  - Diffs stay readable in review
  - Order is preserved (the job board and course list are shown as written)

LOOKUPS:
  Two flavours per record kind:
  - Course(name) (Course, bool):  for names supplied by a player
  - MustCourse(name) Course:      for names read back from game state. A miss
                                  means catalog and state disagree, which is
                                  an invariant violation: it panics with
                                  *generic.UnknownReferenceError.

USAGE:
  cat := catalog.Default()
  course := cat.MustCourse(state.Education.CourseName)

SEE ALSO:
  - data/*.yaml: The reference data
  - generic/errors.go: UnknownReferenceError
*/
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"math"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/warp/lifesim/generic"
)

//go:embed data/*.yaml
var dataFS embed.FS

// FallbackJobTitle is the low-wage job staged when a relocation costs the
// player their position.
const FallbackJobTitle = "Odd Jobs"

// =============================================================================
// RECORDS
// =============================================================================

type CourseType string

const (
	CourseDegree CourseType = "degree"
	CourseCert   CourseType = "cert"
)

// Job is a job board posting. EducationRequired and CertRequired are empty
// when the posting has no such requirement.
type Job struct {
	Title             string        `json:"title"`
	BasePay           generic.Money `json:"base_pay"`
	EducationRequired string        `json:"education_required,omitempty"`
	CertRequired      string        `json:"cert_required,omitempty"`
	TransitRequired   int           `json:"transit_required"`
	HireOdds          float64       `json:"hire_odds"`
	Category          string        `json:"category"`
}

type Course struct {
	Name           string        `json:"name"`
	DurationMonths int           `json:"duration_months"`
	MonthlyCost    generic.Money `json:"monthly_cost"`
	Type           CourseType    `json:"type"`
	Prerequisite   string        `json:"prerequisite,omitempty"`
}

type TransitTier struct {
	Name        string        `json:"name"`
	MonthlyCost generic.Money `json:"monthly_cost"`
	Level       int           `json:"level"`
}

type City struct {
	Name           string       `json:"name"`
	PayMultiplier  generic.Rate `json:"pay_multiplier"`
	RentMultiplier generic.Rate `json:"rent_multiplier"`
	Lat            float64      `json:"lat"`
	Lon            float64      `json:"lon"`
}

type VehicleClass struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	MaintenanceFactor generic.Rate `json:"maintenance_factor"`
	GasMileage        generic.Rate `json:"gas_mileage"`
	DepreciationNew   generic.Rate `json:"depreciation_new"`
	DepreciationUsed  generic.Rate `json:"depreciation_used"`
}

type VehicleModel struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Class      string        `json:"class"`
	Body       string        `json:"body"`
	NewPrice   generic.Money `json:"new_price"`
	UsedPrice  generic.Money `json:"used_price"`
	LeasePrice generic.Money `json:"lease_price"`
	ModelYear  int           `json:"model_year"`
	CostPerKm  generic.Money `json:"cost_per_km"`
}

type ServiceID string

const (
	ServiceChef        ServiceID = "chef"
	ServiceHousekeeper ServiceID = "housekeeper"
	ServiceChauffeur   ServiceID = "chauffeur"
	ServiceTherapist   ServiceID = "therapist"
	ServiceTrainer     ServiceID = "trainer"
	ServiceConcierge   ServiceID = "concierge"
)

// Service is a luxury subscription. Substitutes names the base expense the
// service replaces ("food", "transit") or is empty.
type Service struct {
	ID          ServiceID     `json:"id"`
	Name        string        `json:"name"`
	Monthly     generic.Money `json:"monthly"`
	MinSalary   generic.Money `json:"min_salary"`
	Substitutes string        `json:"substitutes,omitempty"`
}

// =============================================================================
// CATALOG
// =============================================================================

// Catalog is immutable after Load. Slices keep file order.
type Catalog struct {
	jobs     []Job
	courses  []Course
	transit  []TransitTier
	cities   []City
	classes  []VehicleClass
	vehicles []VehicleModel
	services []Service

	jobByTitle    map[string]int
	courseByName  map[string]int
	transitByName map[string]int
	cityByName    map[string]int
	classByID     map[string]int
	vehicleByID   map[string]int
	serviceByID   map[ServiceID]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded data is
// invalid, which can only happen with a broken build.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := LoadFS(dataFS)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded data invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Accessors return the backing slices; callers must not modify them.
func (c *Catalog) Jobs() []Job                    { return c.jobs }
func (c *Catalog) Courses() []Course              { return c.courses }
func (c *Catalog) TransitTiers() []TransitTier    { return c.transit }
func (c *Catalog) Cities() []City                 { return c.cities }
func (c *Catalog) VehicleClasses() []VehicleClass { return c.classes }
func (c *Catalog) Vehicles() []VehicleModel       { return c.vehicles }
func (c *Catalog) Services() []Service            { return c.services }

func (c *Catalog) Job(title string) (Job, bool) {
	i, ok := c.jobByTitle[title]
	if !ok {
		return Job{}, false
	}
	return c.jobs[i], true
}

func (c *Catalog) Course(name string) (Course, bool) {
	i, ok := c.courseByName[name]
	if !ok {
		return Course{}, false
	}
	return c.courses[i], true
}

func (c *Catalog) Transit(name string) (TransitTier, bool) {
	i, ok := c.transitByName[name]
	if !ok {
		return TransitTier{}, false
	}
	return c.transit[i], true
}

func (c *Catalog) City(name string) (City, bool) {
	i, ok := c.cityByName[name]
	if !ok {
		return City{}, false
	}
	return c.cities[i], true
}

func (c *Catalog) VehicleClass(id string) (VehicleClass, bool) {
	i, ok := c.classByID[id]
	if !ok {
		return VehicleClass{}, false
	}
	return c.classes[i], true
}

func (c *Catalog) Vehicle(id string) (VehicleModel, bool) {
	i, ok := c.vehicleByID[id]
	if !ok {
		return VehicleModel{}, false
	}
	return c.vehicles[i], true
}

func (c *Catalog) Service(id ServiceID) (Service, bool) {
	i, ok := c.serviceByID[id]
	if !ok {
		return Service{}, false
	}
	return c.services[i], true
}

// =============================================================================
// MUST LOOKUPS - For references read back from game state
// =============================================================================

func (c *Catalog) MustJob(title string) Job {
	j, ok := c.Job(title)
	if !ok {
		panic(&generic.UnknownReferenceError{Kind: "job", Name: title})
	}
	return j
}

func (c *Catalog) MustCourse(name string) Course {
	course, ok := c.Course(name)
	if !ok {
		panic(&generic.UnknownReferenceError{Kind: "course", Name: name})
	}
	return course
}

func (c *Catalog) MustCity(name string) City {
	city, ok := c.City(name)
	if !ok {
		panic(&generic.UnknownReferenceError{Kind: "city", Name: name})
	}
	return city
}

func (c *Catalog) MustVehicle(id string) VehicleModel {
	v, ok := c.Vehicle(id)
	if !ok {
		panic(&generic.UnknownReferenceError{Kind: "vehicle", Name: id})
	}
	return v
}

func (c *Catalog) MustVehicleClass(id string) VehicleClass {
	vc, ok := c.VehicleClass(id)
	if !ok {
		panic(&generic.UnknownReferenceError{Kind: "vehicle class", Name: id})
	}
	return vc
}

func (c *Catalog) MustService(id ServiceID) Service {
	s, ok := c.Service(id)
	if !ok {
		panic(&generic.UnknownReferenceError{Kind: "service", Name: string(id)})
	}
	return s
}

// =============================================================================
// GEOGRAPHY
// =============================================================================

const earthRadiusKm = 6371.0

// DistanceKm is the great-circle distance between two cities.
func DistanceKm(a, b City) float64 {
	lat1, lat2 := a.Lat*math.Pi/180, b.Lat*math.Pi/180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// =============================================================================
// LOADING
// =============================================================================

// LoadFS parses and validates every data/*.yaml file in fsys.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	var raw rawCatalog
	files, err := fs.Glob(fsys, "data/*.yaml")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("catalog: no data files")
	}
	for _, path := range files {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var part rawCatalog
		if err := yaml.Unmarshal(data, &part); err != nil {
			return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
		}
		raw.merge(part)
	}
	return build(raw)
}

// Parse builds a catalog from a single YAML document. Used by tests and by
// hosts that ship their own reference data.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return build(raw)
}
