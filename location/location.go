// Package location acquires a single device position fix through a
// platform geolocator and derives the default map viewport around it.
package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roadwatch/accident-tracker-api/models"
)

// Default viewport span around a fix
const (
	DefaultLatitudeDelta  = 0.0922
	DefaultLongitudeDelta = 0.0421
)

// DefaultTimeout bounds the whole permission + acquisition flow so a stuck
// provider can never block the owning screen indefinitely.
const DefaultTimeout = 15 * time.Second

// ErrPermissionDenied is returned when the user denies foreground location
// permission; no acquisition is attempted after a denial.
var ErrPermissionDenied = errors.New("permission to access location was denied")

// Error wraps an underlying geolocator failure, keeping its message
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("error getting location: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Accuracy is the requested accuracy for position acquisition
type Accuracy int

// Accuracy levels understood by geolocators
const (
	AccuracyLow Accuracy = iota
	AccuracyBalanced
	AccuracyHigh
)

// Region is a map viewport: a center point plus latitude/longitude spans
type Region struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitudeDelta"`
	LongitudeDelta float64 `json:"longitudeDelta"`
}

// Fix is a successful one-shot acquisition: the position and the viewport
// derived from it
type Fix struct {
	Position models.GeoPoint `json:"position"`
	Region   Region          `json:"region"`
}

// Geolocator is the platform location service. It is an external
// collaborator; implementations live with the device integration.
type Geolocator interface {
	RequestForegroundPermission(ctx context.Context) (granted bool, err error)
	CurrentPosition(ctx context.Context, accuracy Accuracy) (models.GeoPoint, error)
}

// Provider runs the one-shot permission + fix flow
type Provider struct {
	geo     Geolocator
	timeout time.Duration
}

// NewProvider returns a provider over the given geolocator
func NewProvider(geo Geolocator) *Provider {
	return &Provider{geo: geo, timeout: DefaultTimeout}
}

// WithTimeout overrides the default flow timeout
func (p *Provider) WithTimeout(d time.Duration) *Provider {
	p.timeout = d
	return p
}

// RequestFix asks for foreground permission and, if granted, acquires one
// position sample at balanced accuracy. Neither step is retried. The flow is
// bounded by the provider timeout and aborts as soon as ctx is cancelled, so
// a torn-down owner never receives a late update.
func (p *Provider) RequestFix(ctx context.Context) (Fix, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	granted, err := p.geo.RequestForegroundPermission(ctx)
	if err != nil {
		return Fix{}, &Error{Err: err}
	}
	if !granted {
		return Fix{}, ErrPermissionDenied
	}

	pos, err := p.geo.CurrentPosition(ctx, AccuracyBalanced)
	if err != nil {
		return Fix{}, &Error{Err: err}
	}

	zap.S().Debugw("acquired location fix",
		"latitude", pos.Latitude,
		"longitude", pos.Longitude,
	)

	return Fix{Position: pos, Region: RegionAround(pos)}, nil
}

// RegionAround derives the default fixed-span viewport centered on a point
func RegionAround(pos models.GeoPoint) Region {
	return Region{
		Latitude:       pos.Latitude,
		Longitude:      pos.Longitude,
		LatitudeDelta:  DefaultLatitudeDelta,
		LongitudeDelta: DefaultLongitudeDelta,
	}
}
