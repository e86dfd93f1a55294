package rider

import (
	"errors"
	"fmt"
	"math"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/errs"
	"mercuri/internal/pkg/guard"
)

var ErrRiderIsNotConstructed = errors.New("Rider must be created via NewRider constructor")

// Telemetry is the optional motion data that accompanies a location fix.
type Telemetry struct {
	// Heading in degrees clockwise from north, [0, 360).
	Heading *float64
	// Speed in metres per second.
	Speed *float64
	// Accuracy radius in metres.
	Accuracy *float64
}

// Rider is a courier's current availability and last known position.
//
// Business rules:
//   - A rider is a discovery candidate only while available and located
//   - Going available starts a new idle period; going unavailable ends it
//   - Location updates overwrite the previous fix and telemetry entirely
type Rider struct {
	id                kernel.UUID
	available         bool
	location          *kernel.Location
	telemetry         Telemetry
	idleSince         *time.Time
	locationUpdatedAt *time.Time
	guard             guard.ConstructorGuard
}

// NewRider registers a rider as available and idle since now, with no location yet.
func NewRider(id kernel.UUID, now time.Time) (*Rider, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("now")
	}

	idle := now
	return &Rider{
		id:        id,
		available: true,
		idleSince: &idle,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// State is the persisted shape of a rider.
type State struct {
	ID                kernel.UUID
	Available         bool
	Location          *kernel.Location
	Telemetry         Telemetry
	IdleSince         *time.Time
	LocationUpdatedAt *time.Time
}

// RestoreRider rehydrates a rider. A stored location that no longer validates is
// dropped rather than failing the load, so a corrupt row only removes the rider
// from discovery.
func RestoreRider(s State) (*Rider, error) {
	if err := s.ID.Validate(); err != nil {
		return nil, err
	}

	r := &Rider{
		id:                s.ID,
		available:         s.Available,
		telemetry:         copyTelemetry(s.Telemetry),
		idleSince:         copyTime(s.IdleSince),
		locationUpdatedAt: copyTime(s.LocationUpdatedAt),
		guard:             guard.NewConstructorGuard(),
	}

	if s.Location != nil && s.Location.Validate() == nil {
		loc := *s.Location
		r.location = &loc
	}

	return r, nil
}

func (r *Rider) Validate() error {
	if r == nil {
		return ErrRiderIsNotConstructed
	}
	return r.guard.Validate(ErrRiderIsNotConstructed)
}

func (r *Rider) IsEqual(other *Rider) bool {
	return other != nil && r.id.IsEqual(other.id)
}

func (r *Rider) ID() kernel.UUID {
	return r.id
}

func (r *Rider) IsAvailable() bool {
	return r.available
}

// Location returns the last fix, or nil if the rider never reported one.
func (r *Rider) Location() *kernel.Location {
	if r.location == nil {
		return nil
	}
	loc := *r.location
	return &loc
}

func (r *Rider) Telemetry() Telemetry {
	return copyTelemetry(r.telemetry)
}

func (r *Rider) IdleSince() *time.Time {
	return copyTime(r.idleSince)
}

func (r *Rider) LocationUpdatedAt() *time.Time {
	return copyTime(r.locationUpdatedAt)
}

// IsDiscoverable reports whether the rider may be offered work at all.
func (r *Rider) IsDiscoverable() bool {
	return r.available && r.location != nil
}

// UpdateLocation overwrites the rider's position and telemetry. Repeating the same
// update leaves the rider in the same state apart from the timestamp.
func (r *Rider) UpdateLocation(loc kernel.Location, telemetry Telemetry, now time.Time) error {
	if err := errors.Join(
		loc.Validate(),
		validateTelemetry(telemetry),
	); err != nil {
		return err
	}

	updated := now
	r.location = &loc
	r.telemetry = copyTelemetry(telemetry)
	r.locationUpdatedAt = &updated
	return nil
}

// SetAvailability toggles the rider. Becoming available starts the idle clock at now;
// becoming unavailable clears it. Setting the current value again changes nothing.
func (r *Rider) SetAvailability(available bool, now time.Time) {
	if r.available == available {
		return
	}

	r.available = available
	if available {
		idle := now
		r.idleSince = &idle
		return
	}
	r.idleSince = nil
}

func validateTelemetry(t Telemetry) error {
	var errList []error

	if t.Heading != nil {
		if h := *t.Heading; math.IsNaN(h) || h < 0 || h >= 360 {
			errList = append(errList, errs.NewValueIsOutOfRangeError("heading", h, 0, 360))
		}
	}
	if t.Speed != nil {
		if s := *t.Speed; math.IsNaN(s) || s < 0 {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause("speed", fmt.Errorf("%v is negative", s)))
		}
	}
	if t.Accuracy != nil {
		if a := *t.Accuracy; math.IsNaN(a) || a < 0 {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause("accuracy", fmt.Errorf("%v is negative", a)))
		}
	}

	return errors.Join(errList...)
}

func copyTelemetry(t Telemetry) Telemetry {
	return Telemetry{
		Heading:  copyFloat(t.Heading),
		Speed:    copyFloat(t.Speed),
		Accuracy: copyFloat(t.Accuracy),
	}
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
