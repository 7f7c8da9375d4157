// Package session models a driver's online/offline status. Going online is
// gated on a known location; going offline never is.
package session

import (
	"errors"

	"github.com/roadwatch/accident-tracker-api/models"
)

// ErrBlocked is returned when a driver with no known location tries to go
// online. The caller surfaces it as an actionable message; state must not
// change.
var ErrBlocked = errors.New("location required to go online")

// State is a driver's session state
type State struct {
	IsOnline bool
	Location *models.GeoPoint
}

// RecordsVisible reports whether the records affordance is shown. It has no
// state of its own: online implies visible.
func (s State) RecordsVisible() bool {
	return s.IsOnline
}

// Toggle flips the online flag. The offline-to-online transition requires a
// location; without one the state is returned unmodified alongside
// ErrBlocked.
func Toggle(s State) (State, error) {
	if !s.IsOnline && s.Location == nil {
		return s, ErrBlocked
	}
	s.IsOnline = !s.IsOnline
	return s, nil
}
