package matching

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"
	"FoodBridge-Backend/pkg/geo"
	"sort"
	"time"
)

// DefaultRadiusKm is the matching radius used when the caller does not
// override it and no value is configured.
const DefaultRadiusKm = 10

// Match pairs a donation with its distance from the match origin.
type Match struct {
	Donation   *entities.Donation
	DistanceKm float64
}

// FindNearby filters candidates to those within radiusKm of origin
// (inclusive) that are still available and not expired, ordered by
// ascending distance. Ties are broken by creation time so earlier
// postings surface first.
func FindNearby(origin geo.Coordinate, candidates []*entities.Donation, radiusKm float64, now time.Time) ([]Match, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		pickup := geo.Coordinate{Latitude: candidate.Latitude, Longitude: candidate.Longitude}
		if err := pickup.Validate(); err != nil {
			return nil, err
		}

		if candidate.Status != domain.DonationStatusAvailable {
			continue
		}
		if !candidate.AvailableUntil.After(now) {
			continue
		}

		distance := geo.Distance(origin, pickup)
		if distance > radiusKm {
			continue
		}

		matches = append(matches, Match{Donation: candidate, DistanceKm: distance})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].Donation.CreatedAt.Before(matches[j].Donation.CreatedAt)
	})

	return matches, nil
}
