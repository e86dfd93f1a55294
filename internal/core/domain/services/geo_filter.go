package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/rider"
	"mercuri/internal/pkg/errs"
)

const (
	// DispatchRadiusKm is how far from the pickup point a rider may be to receive an offer.
	DispatchRadiusKm = 3.0

	// DispatchCandidateLimit caps the number of offers sent per dispatch.
	DispatchCandidateLimit = 5
)

// RiderSet is a set of rider identifiers.
type RiderSet map[kernel.UUID]struct{}

func NewRiderSet(ids ...kernel.UUID) RiderSet {
	set := make(RiderSet, len(ids))
	for _, id := range ids {
		set.Add(id)
	}
	return set
}

func (s RiderSet) Add(id kernel.UUID) {
	s[id] = struct{}{}
}

func (s RiderSet) Contains(id kernel.UUID) bool {
	_, ok := s[id]
	return ok
}

type candidate struct {
	rider      *rider.Rider
	idleSince  *time.Time
	distanceKm float64
}

// FindCandidates returns the riders of pool that are available, located within radiusKm of
// pickup (boundary inclusive) and not in excluded. Riders idle the longest come first; riders
// with no idle time sort last; ties break by distance and then by identifier. The result holds
// at most limit riders.
//
// Riders without a usable location are skipped. Only a malformed pickup, radius or limit
// fails the call.
func FindCandidates(
	pickup kernel.Location,
	pool []*rider.Rider,
	excluded RiderSet,
	radiusKm float64,
	limit int,
) ([]*rider.Rider, error) {
	if err := pickup.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("pickup", err)
	}
	if math.IsNaN(radiusKm) || radiusKm <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("radiusKm", fmt.Errorf("%v is not positive", radiusKm))
	}
	if limit <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("limit", fmt.Errorf("%d is not positive", limit))
	}

	candidates := make([]candidate, 0, len(pool))
	for _, r := range pool {
		if r.Validate() != nil || !r.IsDiscoverable() || excluded.Contains(r.ID()) {
			continue
		}

		distance, err := pickup.DistanceKm(*r.Location())
		if err != nil || math.IsNaN(distance) || distance > radiusKm {
			continue
		}

		candidates = append(candidates, candidate{
			rider:      r,
			idleSince:  r.IdleSince(),
			distanceKm: distance,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].less(candidates[j])
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]*rider.Rider, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.rider)
	}
	return result, nil
}

func (c candidate) less(other candidate) bool {
	switch {
	case c.idleSince != nil && other.idleSince == nil:
		return true
	case c.idleSince == nil && other.idleSince != nil:
		return false
	case c.idleSince != nil && !c.idleSince.Equal(*other.idleSince):
		return c.idleSince.Before(*other.idleSince)
	case c.distanceKm != other.distanceKm:
		return c.distanceKm < other.distanceKm
	default:
		return c.rider.ID().String() < other.rider.ID().String()
	}
}
