package matching

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"
	"FoodBridge-Backend/internal/utils"
	"FoodBridge-Backend/pkg/donation"
	"FoodBridge-Backend/pkg/geo"
	"FoodBridge-Backend/pkg/user"
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
)

type (
	MatchingService interface {
		MatchDonations(ctx context.Context, acceptorID string, radiusKm float64) ([]*domain.NearbyDonation, error)
	}

	matchingService struct {
		donationRepository donation.DonationRepository
		userRepository     user.UserRepository
		defaultRadiusKm    float64
	}
)

func NewMatchingService(donationRepository donation.DonationRepository, userRepository user.UserRepository) MatchingService {
	radius := float64(DefaultRadiusKm)
	if configured := utils.GetConfig("MATCH_RADIUS_KM"); configured != "" {
		if parsed, err := strconv.ParseFloat(configured, 64); err == nil && parsed > 0 {
			radius = parsed
		}
	}

	return &matchingService{
		donationRepository: donationRepository,
		userRepository:     userRepository,
		defaultRadiusKm:    radius,
	}
}

func (s *matchingService) MatchDonations(ctx context.Context, acceptorID string, radiusKm float64) ([]*domain.NearbyDonation, error) {
	acceptor, err := s.userRepository.GetUserByID(ctx, acceptorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	// An unverified acceptor sees nothing; this is deliberately an empty
	// result rather than an error so dashboards render cleanly while the
	// organization waits for verification. Same for a missing location.
	if acceptor.Role != domain.RoleAcceptor || !acceptor.IsVerified {
		return []*domain.NearbyDonation{}, nil
	}
	if acceptor.Latitude == nil || acceptor.Longitude == nil {
		return []*domain.NearbyDonation{}, nil
	}

	if radiusKm <= 0 {
		radiusKm = s.defaultRadiusKm
	}

	candidates, err := s.donationRepository.GetAvailableDonations(ctx)
	if err != nil {
		return nil, err
	}

	origin := geo.Coordinate{Latitude: *acceptor.Latitude, Longitude: *acceptor.Longitude}
	matches, err := FindNearby(origin, candidates, radiusKm, time.Now())
	if err != nil {
		return nil, err
	}

	result := make([]*domain.NearbyDonation, 0, len(matches))
	for _, match := range matches {
		result = append(result, &domain.NearbyDonation{
			Donation:   *toDonation(match.Donation),
			DistanceKm: match.DistanceKm,
		})
	}
	return result, nil
}

func toDonation(donation *entities.Donation) *domain.Donation {
	return &domain.Donation{
		ID:                 donation.ID.String(),
		DonorID:            donation.DonorID.String(),
		FoodName:           donation.FoodName,
		FoodType:           donation.FoodType,
		Quantity:           donation.Quantity,
		Description:        donation.Description,
		PickupAddress:      donation.PickupAddress,
		Latitude:           donation.Latitude,
		Longitude:          donation.Longitude,
		AvailableUntil:     donation.AvailableUntil,
		Status:             donation.Status,
		ImageURL:           donation.ImageURL,
		AIQualityScore:     donation.AIQualityScore,
		AICategory:         donation.AICategory,
		AIExpiryPrediction: donation.AIExpiryPrediction,
		CreatedAt:          donation.CreatedAt,
	}
}
