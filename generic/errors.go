/*
errors.go - Centralized error types for the simulation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Refusals - A staging action whose precondition is unmet (no state change)
  2. Reference errors - Catalog and state disagree (fatal, see UnknownReferenceError)
  3. Persistence errors - Save slot failures (non-fatal, memory state wins)

WHAT IS NOT AN ERROR:
  - Insufficient funds during a month transition: converted to an auto-loan
  - A wrong reconciliation answer: lowers the credit score, never fails

USAGE:
  if errors.Is(err, generic.ErrPrerequisiteUnmet) {
      // show the course as locked
  }

SEE ALSO:
  - catalog/catalog.go: Must* lookups panic with UnknownReferenceError
  - session/saves.go: Wraps store failures in PersistenceError
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPrerequisiteUnmet is returned when enrolling in a course whose
	// prerequisite credential has not been earned.
	ErrPrerequisiteUnmet = errors.New("prerequisite not met")

	// ErrAlreadyEnrolled is returned when a course is already in progress.
	ErrAlreadyEnrolled = errors.New("already enrolled in a course")

	// ErrAlreadyCredentialed is returned when the credential is already held.
	ErrAlreadyCredentialed = errors.New("credential already earned")

	// ErrInsufficientFunds is returned by manual purchases only. Month
	// processing never returns it; shortfalls become auto-loans.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCooldown is returned when an action is attempted before its cooldown elapsed.
	ErrCooldown = errors.New("cooldown not elapsed")

	// ErrServiceUnaffordable is returned when a luxury service requires a
	// higher net salary than the player earns.
	ErrServiceUnaffordable = errors.New("salary below service minimum")

	// ErrInvalidAmount is returned for non-positive or malformed amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrApplicationNotFound is returned for an unknown application id.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrApplicationNotAccepted is returned when accepting an offer that was
	// not (or not yet) accepted by the employer.
	ErrApplicationNotAccepted = errors.New("application not accepted")

	// ErrDuplicateApplication is returned when a pending application for the
	// same job already exists.
	ErrDuplicateApplication = errors.New("application already pending")

	// ErrVehicleNotFound is returned for an unknown garage vehicle id.
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrVehicleLeased is returned when listing a leased vehicle for sale.
	ErrVehicleLeased = errors.New("leased vehicles cannot be sold")

	// ErrNoChange is returned when a staged change equals the current value
	// (relocating to the current city, for example).
	ErrNoChange = errors.New("nothing to change")

	// ErrLineNotFound is returned when checking a ledger line that does not exist.
	ErrLineNotFound = errors.New("ledger line not found")

	// ErrUnknownReference is the sentinel behind UnknownReferenceError.
	ErrUnknownReference = errors.New("unknown catalog reference")

	// ErrNoGame is returned by session operations before a game was started
	// or loaded.
	ErrNoGame = errors.New("no game in progress")

	// ErrInvalidSlotName is returned for an empty or reserved slot name.
	ErrInvalidSlotName = errors.New("invalid save slot name")

	// ErrSlotNotFound is returned when a save slot does not exist.
	ErrSlotNotFound = errors.New("save slot not found")

	// ErrSlotExists is returned when renaming onto an existing slot.
	ErrSlotExists = errors.New("save slot already exists")

	// ErrAutosaveProtected is returned when deleting or renaming the autosave.
	ErrAutosaveProtected = errors.New("autosave slot cannot be modified")

	// ErrPersistence is the sentinel behind PersistenceError.
	ErrPersistence = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownReferenceError means the catalog and the game state disagree: a
// course, job, vehicle or city named in state is missing from the catalog.
// It is an invariant violation, raised with panic by Must* lookups.
type UnknownReferenceError struct {
	Kind string // "job", "course", "transit", "city", "vehicle", "service"
	Name string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

func (e *UnknownReferenceError) Unwrap() error { return ErrUnknownReference }

// CooldownError reports when an action becomes available again.
type CooldownError struct {
	Action string
	Until  MonthDate
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s available again in %s", e.Action, e.Until)
}

func (e *CooldownError) Unwrap() error { return ErrCooldown }

// InsufficientFundsError provides details about a rejected purchase.
type InsufficientFundsError struct {
	Available Money
	Requested Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, requested %s",
		FormatMoney(e.Available), FormatMoney(e.Requested))
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// PersistenceError wraps a store failure with the operation and slot.
type PersistenceError struct {
	Op   string
	Slot string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s slot %q: %v", e.Op, e.Slot, e.Err)
}

// Unwrap exposes both the persistence sentinel and the underlying cause.
func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistence) &&
		!errors.Is(err, ErrSlotNotFound) &&
		!errors.Is(err, ErrSlotExists) &&
		!errors.Is(err, ErrAutosaveProtected) &&
		!errors.Is(err, ErrInvalidSlotName)
}

// IsClientError returns true if the error is a refusal caused by input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrPrerequisiteUnmet) ||
		errors.Is(err, ErrAlreadyEnrolled) ||
		errors.Is(err, ErrAlreadyCredentialed) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrCooldown) ||
		errors.Is(err, ErrServiceUnaffordable) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrApplicationNotAccepted) ||
		errors.Is(err, ErrDuplicateApplication) ||
		errors.Is(err, ErrVehicleLeased) ||
		errors.Is(err, ErrNoChange) ||
		errors.Is(err, ErrInvalidSlotName) ||
		errors.Is(err, ErrAutosaveProtected)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrApplicationNotFound) ||
		errors.Is(err, ErrVehicleNotFound) ||
		errors.Is(err, ErrLineNotFound) ||
		errors.Is(err, ErrSlotNotFound) ||
		errors.Is(err, ErrNoGame) ||
		errors.Is(err, ErrUnknownReference)
}

// IsConflict returns true if the error indicates a uniqueness conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrSlotExists) || errors.Is(err, ErrDuplicateApplication)
}
