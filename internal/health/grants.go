package health

import (
	"database/sql"
	"fmt"
)

// AuthorizationStatus is the non-prompting check: Granted only when every
// requested scope has a recorded grant, Denied when any scope has a recorded
// denial, Unknown otherwise (no decision on record yet).
func (s *Store) AuthorizationStatus(scopes []SampleKind) (AuthStatus, error) {
	status := AuthGranted
	for _, scope := range scopes {
		var granted int
		err := s.db.QueryRow(`SELECT granted FROM grants WHERE scope = ?`, int(scope)).Scan(&granted)
		if err == sql.ErrNoRows {
			if status != AuthDenied {
				status = AuthUnknown
			}
			continue
		}
		if err != nil {
			return AuthUnknown, fmt.Errorf("check grant %s: %w", scope, err)
		}
		if granted == 0 {
			status = AuthDenied
		}
	}
	return status, nil
}

// SetAuthorization records the user's one-time decision for the given
// scopes. Scopes that already carry a decision are left untouched, matching
// the platform's prompt-once-per-install behavior; the effective status
// after the call is returned.
func (s *Store) SetAuthorization(scopes []SampleKind, granted bool) (AuthStatus, error) {
	g := 0
	if granted {
		g = 1
	}
	for _, scope := range scopes {
		_, err := s.db.Exec(
			`INSERT INTO grants (scope, granted) VALUES (?, ?) ON CONFLICT(scope) DO NOTHING`,
			int(scope), g,
		)
		if err != nil {
			return AuthUnknown, fmt.Errorf("record grant %s: %w", scope, err)
		}
	}
	return s.AuthorizationStatus(scopes)
}

// HasDecision reports whether any of the scopes already carries a recorded
// grant or denial. The prompt is only shown when this is false.
func (s *Store) HasDecision(scopes []SampleKind) (bool, error) {
	for _, scope := range scopes {
		var granted int
		err := s.db.QueryRow(`SELECT granted FROM grants WHERE scope = ?`, int(scope)).Scan(&granted)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("check decision %s: %w", scope, err)
		}
		return true, nil
	}
	return false, nil
}
