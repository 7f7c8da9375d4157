package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roadwatch/accident-tracker-api/models"
	"github.com/roadwatch/accident-tracker-api/session"
)

func TestToggleBlockedWithoutLocation(t *testing.T) {
	s := session.State{IsOnline: false, Location: nil}

	got, err := session.Toggle(s)

	assert.ErrorIs(t, err, session.ErrBlocked)
	assert.Equal(t, s, got, "state must not change on a blocked toggle")
	assert.False(t, got.IsOnline)
}

func TestToggleOnlineWithLocation(t *testing.T) {
	loc := &models.GeoPoint{Latitude: 37.78825, Longitude: -122.4324}
	s := session.State{IsOnline: false, Location: loc}

	got, err := session.Toggle(s)

	assert.NoError(t, err)
	assert.True(t, got.IsOnline)
	assert.Equal(t, loc, got.Location, "toggle must not mutate other fields")
}

func TestToggleOfflineAlwaysAllowed(t *testing.T) {
	// going offline needs no location, even if the fix was lost meanwhile
	s := session.State{IsOnline: true, Location: nil}

	got, err := session.Toggle(s)

	assert.NoError(t, err)
	assert.False(t, got.IsOnline)
}

func TestToggleRoundTrip(t *testing.T) {
	s := session.State{Location: &models.GeoPoint{Latitude: 1, Longitude: 2}}

	on, err := session.Toggle(s)
	assert.NoError(t, err)
	assert.True(t, on.IsOnline)
	assert.True(t, on.RecordsVisible())

	off, err := session.Toggle(on)
	assert.NoError(t, err)
	assert.False(t, off.IsOnline)
	assert.False(t, off.RecordsVisible())
}
