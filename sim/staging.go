package sim

import (
	"fmt"

	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/generic"
)

// =============================================================================
// STAGED CHANGES
// =============================================================================
//
// Staging operations record intent. None of them touch accounts or credit;
// the effects land at the next ProcessMonth. Refusals return an error and
// leave the state unchanged.

// Enroll starts a course. It is refused when a course is already in
// progress, when the credential is already held, or when the prerequisite
// has not been earned.
func (e *Engine) Enroll(s *State, courseName string) error {
	course, ok := e.Catalog.Course(courseName)
	if !ok {
		return &generic.UnknownReferenceError{Kind: "course", Name: courseName}
	}
	if s.Education != nil {
		return generic.ErrAlreadyEnrolled
	}
	if s.HasCredential(course.Name) {
		return generic.ErrAlreadyCredentialed
	}
	if course.Prerequisite != "" && !s.HasCredential(course.Prerequisite) {
		return fmt.Errorf("%w: %s requires %s", generic.ErrPrerequisiteUnmet, course.Name, course.Prerequisite)
	}

	s.Education = &Enrollment{CourseName: course.Name}
	s.logf(s.Date, "Enrolled in %s (%d months, $%s/mo)", course.Name, course.DurationMonths, generic.FormatMoney(course.MonthlyCost))
	return nil
}

// DropCourse abandons the current course. Accrued months are lost.
func (e *Engine) DropCourse(s *State) error {
	if s.Education == nil {
		return generic.ErrNoChange
	}
	s.logf(s.Date, "Dropped %s after %d months", s.Education.CourseName, s.Education.MonthsAccrued)
	s.Education = nil
	return nil
}

// StageTransit schedules a transit tier change for the next month.
func (e *Engine) StageTransit(s *State, name string) error {
	tier, ok := e.Catalog.Transit(name)
	if !ok {
		return &generic.UnknownReferenceError{Kind: "transit", Name: name}
	}
	if tier.Name == s.Transit.Name {
		if s.Pending.Transit == nil {
			return generic.ErrNoChange
		}
		s.Pending.Transit = nil
		s.logf(s.Date, "Kept transit: %s", tier.Name)
		return nil
	}
	s.Pending.Transit = &tier
	s.logf(s.Date, "Transit change to %s scheduled", tier.Name)
	return nil
}

// StageRelocation schedules a move noticeMonths from now. Moving costs are
// fixed at staging time and charged as debt when the move happens.
func (e *Engine) StageRelocation(s *State, cityName string, noticeMonths int) (*Relocation, error) {
	if noticeMonths < 1 {
		return nil, fmt.Errorf("%w: notice must be at least one month", generic.ErrInvalidAmount)
	}
	city, ok := e.Catalog.City(cityName)
	if !ok {
		return nil, &generic.UnknownReferenceError{Kind: "city", Name: cityName}
	}
	if city.Name == s.City.Name {
		return nil, generic.ErrNoChange
	}

	cp := e.Params.Costs
	km := catalog.DistanceKm(s.City, city)
	r := &Relocation{
		City:           city,
		Scheduled:      s.Date.AddMonths(noticeMonths),
		RelocationCost: cp.RelocationCost(city),
		TransportCost:  cp.TransportCost(km),
		DistanceKm:     km,
	}
	s.Pending.City = r
	s.logf(s.Date, "Relocation to %s scheduled for %s", city.Name, r.Scheduled)
	return r, nil
}

func (e *Engine) CancelRelocation(s *State) error {
	if s.Pending.City == nil {
		return generic.ErrNoChange
	}
	s.logf(s.Date, "Cancelled relocation to %s", s.Pending.City.City.Name)
	s.Pending.City = nil
	return nil
}

// SetEntertainment sets the monthly discretionary budget, clamped to the
// cap for the effective job. It returns the amount actually set.
func (e *Engine) SetEntertainment(s *State, amount generic.Money) (generic.Money, error) {
	if amount.IsNegative() {
		return generic.Zero, generic.ErrInvalidAmount
	}
	limit := e.Params.Costs.EntertainmentCap(e.NetSalary(s))
	s.Entertainment = generic.Round2(generic.MinMoney(amount, limit))
	s.logf(s.Date, "Entertainment budget set to $%s", generic.FormatMoney(s.Entertainment))
	return s.Entertainment, nil
}

// SetLuxuryService turns a service on or off. Turning one on requires a
// net salary at or above the service minimum.
func (e *Engine) SetLuxuryService(s *State, id catalog.ServiceID, on bool) error {
	svc, ok := e.Catalog.Service(id)
	if !ok {
		return &generic.UnknownReferenceError{Kind: "service", Name: string(id)}
	}
	if s.ServiceActive(id) == on {
		return nil
	}
	if !on {
		delete(s.LuxuryServices, id)
		s.logf(s.Date, "Cancelled %s", svc.Name)
		return nil
	}

	if net := e.NetSalary(s); net.LessThan(svc.MinSalary) {
		return fmt.Errorf("%w: %s needs $%s net, you earn $%s", generic.ErrServiceUnaffordable,
			svc.Name, generic.FormatMoney(svc.MinSalary), generic.FormatMoney(net))
	}
	if s.LuxuryServices == nil {
		s.LuxuryServices = map[catalog.ServiceID]bool{}
	}
	s.LuxuryServices[id] = true
	s.logf(s.Date, "Subscribed to %s", svc.Name)
	return nil
}
