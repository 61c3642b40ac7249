package models

import "errors"

// ErrInvalidSession indicates a session with a missing user or household.
var ErrInvalidSession = errors.New("session requires user and household ids")

// Session is the explicit tenant context passed into every ledger and
// catalog call. All reads and writes are scoped to HouseholdID.
type Session struct {
	UserID      string
	HouseholdID string
}

// Validate ensures both identifiers are present.
func (s Session) Validate() error {
	if s.UserID == "" || s.HouseholdID == "" {
		return ErrInvalidSession
	}
	return nil
}
