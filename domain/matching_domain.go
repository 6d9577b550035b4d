package domain

var (
	MessageSuccessMatchDonations = "matching donations retrieved successfully"
	MessageFailedMatchDonations  = "failed to retrieve matching donations"
)

type (
	// NearbyDonation pairs a donation with the distance from the
	// acceptor's location, captured at match time.
	NearbyDonation struct {
		Donation   Donation `json:"donation"`
		DistanceKm float64  `json:"distance_km"`
	}
)
