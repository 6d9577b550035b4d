package donation

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"
	"FoodBridge-Backend/internal/utils/storage"
	"FoodBridge-Backend/pkg/ai"
	"FoodBridge-Backend/pkg/geo"
	"FoodBridge-Backend/pkg/user"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DonationService interface {
		SubmitDonation(ctx context.Context, req domain.SubmitDonationRequest, donorID string) (*domain.Donation, error)
		GetDonationByID(ctx context.Context, id string) (*domain.Donation, error)
		GetUserDonations(ctx context.Context, donorID string, page, limit int) ([]*domain.Donation, int64, error)
		AcceptDonation(ctx context.Context, donationID, acceptorID string) (*domain.Acceptance, error)
		CompleteDonation(ctx context.Context, donationID, actorID string) error
		CancelDonation(ctx context.Context, donationID, actorID string) error
		RateDonation(ctx context.Context, donationID, acceptorID string, req domain.RateDonationRequest) error
		GetDonationStatistics(ctx context.Context, donorID string) (*domain.DonationStatistics, error)
	}

	donationService struct {
		donationRepository DonationRepository
		userRepository     user.UserRepository
		analyzer           ai.ContentAnalyzer
		s3                 storage.AwsS3
	}
)

func NewDonationService(donationRepository DonationRepository, userRepository user.UserRepository, analyzer ai.ContentAnalyzer, s3 storage.AwsS3) DonationService {
	return &donationService{
		donationRepository: donationRepository,
		userRepository:     userRepository,
		analyzer:           analyzer,
		s3:                 s3,
	}
}

func (s *donationService) SubmitDonation(ctx context.Context, req domain.SubmitDonationRequest, donorID string) (*domain.Donation, error) {
	donorUUID, err := uuid.Parse(donorID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	if !domain.ValidFoodType(req.FoodType) {
		return nil, domain.ErrInvalidFoodType
	}

	pickup := geo.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := pickup.Validate(); err != nil {
		return nil, err
	}

	availableUntil, err := time.Parse(time.RFC3339, req.AvailableUntil)
	if err != nil {
		return nil, domain.ErrInvalidAvailability
	}
	if !availableUntil.After(time.Now()) {
		return nil, domain.ErrInvalidAvailability
	}

	donationID := uuid.New()
	donation := &entities.Donation{
		ID:             donationID,
		DonorID:        donorUUID,
		FoodName:       req.FoodName,
		FoodType:       req.FoodType,
		Quantity:       req.Quantity,
		Description:    req.Description,
		PickupAddress:  req.PickupAddress,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AvailableUntil: availableUntil,
		Status:         domain.DonationStatusAvailable,
	}

	// Image upload and analysis are enrichment only: a failure in either
	// must not block the donation from being posted.
	if req.FoodImage != nil {
		objectKey, err := s.s3.UploadFile(
			fmt.Sprintf("donation-%s", donationID.String()),
			req.FoodImage,
			"donations",
			storage.AllowImage...,
		)
		if err != nil {
			log.Warnf("donation image upload failed, posting without image: %v", err)
		} else {
			donation.ImageURL = s.s3.GetPublicLinkKey(objectKey)
		}

		if imageBytes, mimeType, err := readImage(req.FoodImage); err != nil {
			log.Warnf("donation image unreadable, skipping analysis: %v", err)
		} else {
			analysis := s.analyzer.AnalyzeFoodImage(ctx, imageBytes, mimeType)
			score := analysis.QualityScore
			donation.AIQualityScore = &score
			donation.AICategory = analysis.Category
			donation.AIExpiryPrediction = analysis.ExpiryPrediction
		}
	}

	if err := s.donationRepository.CreateDonation(ctx, donation); err != nil {
		return nil, err
	}

	return toDonation(donation), nil
}

func (s *donationService) GetDonationByID(ctx context.Context, id string) (*domain.Donation, error) {
	donation, err := s.donationRepository.GetDonationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}
	return toDonation(donation), nil
}

func (s *donationService) GetUserDonations(ctx context.Context, donorID string, page, limit int) ([]*domain.Donation, int64, error) {
	donations, count, err := s.donationRepository.GetUserDonations(ctx, donorID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.Donation, 0, len(donations))
	for _, donation := range donations {
		result = append(result, toDonation(donation))
	}
	return result, count, nil
}

func (s *donationService) AcceptDonation(ctx context.Context, donationID, acceptorID string) (*domain.Acceptance, error) {
	donationUUID, err := uuid.Parse(donationID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	acceptorUUID, err := uuid.Parse(acceptorID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	donation, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}

	switch donation.Status {
	case domain.DonationStatusAvailable:
		// proceed
	case domain.DonationStatusAccepted:
		return nil, domain.ErrAlreadyAccepted
	default:
		return nil, domain.ErrInvalidTransition
	}

	if !donation.AvailableUntil.After(time.Now()) {
		return nil, domain.ErrDonationExpired
	}

	acceptor, err := s.userRepository.GetUserByID(ctx, acceptorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if acceptor.Role != domain.RoleAcceptor {
		return nil, domain.ErrNotAnAcceptor
	}
	if !acceptor.IsVerified {
		return nil, domain.ErrNotVerified
	}
	if acceptor.Latitude == nil || acceptor.Longitude == nil {
		return nil, domain.ErrMissingLocation
	}

	origin := geo.Coordinate{Latitude: *acceptor.Latitude, Longitude: *acceptor.Longitude}
	pickup := geo.Coordinate{Latitude: donation.Latitude, Longitude: donation.Longitude}
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if err := pickup.Validate(); err != nil {
		return nil, err
	}

	// Distance is captured once at acceptance time and never recomputed.
	distanceKm := geo.Distance(origin, pickup)

	acceptance, err := s.donationRepository.AcceptDonation(ctx, donationUUID, acceptorUUID, distanceKm, domain.GreenPointsPerAccept)
	if err != nil {
		return nil, err
	}

	return toAcceptance(acceptance), nil
}

func (s *donationService) CompleteDonation(ctx context.Context, donationID, actorID string) error {
	donation, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrDonationNotFound
		}
		return err
	}

	if donation.Status != domain.DonationStatusAccepted {
		return domain.ErrInvalidTransition
	}

	if !s.isParty(donation, actorID) {
		return domain.ErrUnauthorizedDonationAccess
	}

	return s.donationRepository.CompleteDonation(ctx, donationID, time.Now())
}

func (s *donationService) CancelDonation(ctx context.Context, donationID, actorID string) error {
	donation, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrDonationNotFound
		}
		return err
	}

	switch donation.Status {
	case domain.DonationStatusAvailable:
		if donation.DonorID.String() != actorID {
			return domain.ErrUnauthorizedDonationAccess
		}
	case domain.DonationStatusAccepted:
		// Either party may cancel after acceptance (e.g. a no-show).
		// Points already credited to the donor are not revoked.
		if !s.isParty(donation, actorID) {
			return domain.ErrUnauthorizedDonationAccess
		}
	default:
		return domain.ErrInvalidTransition
	}

	return s.donationRepository.UpdateDonationStatus(ctx, donationID, domain.DonationStatusCancelled)
}

func (s *donationService) RateDonation(ctx context.Context, donationID, acceptorID string, req domain.RateDonationRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return domain.ErrInvalidRating
	}

	donation, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrDonationNotFound
		}
		return err
	}

	if donation.Status != domain.DonationStatusCompleted {
		return domain.ErrInvalidTransition
	}

	acceptance, err := s.donationRepository.GetAcceptanceByDonationID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAcceptanceNotFound
		}
		return err
	}

	if acceptance.AcceptorID.String() != acceptorID {
		return domain.ErrUnauthorizedDonationAccess
	}

	return s.donationRepository.RateAcceptance(ctx, acceptance.ID.String(), req.Rating, req.Feedback)
}

func (s *donationService) GetDonationStatistics(ctx context.Context, donorID string) (*domain.DonationStatistics, error) {
	stats, err := s.donationRepository.GetDonationStatistics(ctx, donorID)
	if err != nil {
		return nil, err
	}

	accepted := int(stats[domain.DonationStatusAccepted])
	completed := int(stats[domain.DonationStatusCompleted])

	return &domain.DonationStatistics{
		TotalDonations:     int(stats["total"]),
		AvailableDonations: int(stats[domain.DonationStatusAvailable]),
		AcceptedDonations:  accepted,
		CompletedDonations: completed,
		CancelledDonations: int(stats[domain.DonationStatusCancelled]),
		// Points are credited at acceptance and survive cancellation, so
		// every donation that ever reached accepted counts.
		GreenPointsEarned: (accepted + completed) * domain.GreenPointsPerAccept,
	}, nil
}

func (s *donationService) isParty(donation *entities.Donation, actorID string) bool {
	if donation.DonorID.String() == actorID {
		return true
	}
	if donation.Acceptance != nil && donation.Acceptance.AcceptorID.String() == actorID {
		return true
	}
	return false
}

func readImage(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
		switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
		case ".png":
			mimeType = "image/png"
		case ".gif":
			mimeType = "image/gif"
		case ".webp":
			mimeType = "image/webp"
		}
	}

	return data, mimeType, nil
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

func toAcceptance(acceptance *entities.DonationAcceptance) *domain.Acceptance {
	return &domain.Acceptance{
		ID:          acceptance.ID.String(),
		DonationID:  acceptance.DonationID.String(),
		AcceptorID:  acceptance.AcceptorID.String(),
		DistanceKm:  acceptance.DistanceKm,
		AcceptedAt:  acceptance.AcceptedAt,
		CompletedAt: acceptance.CompletedAt,
		Rating:      acceptance.Rating,
		Feedback:    acceptance.Feedback,
	}
}
