package donation

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"
	"FoodBridge-Backend/internal/utils/storage"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// memoryDonationRepository enforces the same guarantees as the real
// repository: a unique acceptance row per donation and a status update
// guarded on the previous status, both under a single lock so racing
// accepts behave like the database transaction does.
type memoryDonationRepository struct {
	mu          sync.Mutex
	donations   map[string]*entities.Donation
	acceptances map[string]*entities.DonationAcceptance
	points      map[string]int
}

func newMemoryDonationRepository() *memoryDonationRepository {
	return &memoryDonationRepository{
		donations:   map[string]*entities.Donation{},
		acceptances: map[string]*entities.DonationAcceptance{},
		points:      map[string]int{},
	}
}

func (r *memoryDonationRepository) CreateDonation(ctx context.Context, donation *entities.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.donations[donation.ID.String()] = donation
	return nil
}

func (r *memoryDonationRepository) GetDonationByID(ctx context.Context, id string) (*entities.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	donation, ok := r.donations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *donation
	if acceptance, ok := r.acceptances[id]; ok {
		acceptanceCopy := *acceptance
		copied.Acceptance = &acceptanceCopy
	}
	return &copied, nil
}

func (r *memoryDonationRepository) GetAvailableDonations(ctx context.Context) ([]*entities.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Donation
	for _, donation := range r.donations {
		if donation.Status == domain.DonationStatusAvailable {
			result = append(result, donation)
		}
	}
	return result, nil
}

func (r *memoryDonationRepository) GetUserDonations(ctx context.Context, donorID string, page, limit int) ([]*entities.Donation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Donation
	for _, donation := range r.donations {
		if donation.DonorID.String() == donorID {
			result = append(result, donation)
		}
	}
	return result, int64(len(result)), nil
}

func (r *memoryDonationRepository) UpdateDonationStatus(ctx context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if donation, ok := r.donations[id]; ok {
		donation.Status = status
	}
	return nil
}

func (r *memoryDonationRepository) AcceptDonation(ctx context.Context, donationID, acceptorID uuid.UUID, distanceKm float64, points int) (*entities.DonationAcceptance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.acceptances[donationID.String()]; exists {
		return nil, domain.ErrAlreadyAccepted
	}

	donation, ok := r.donations[donationID.String()]
	if !ok || donation.Status != domain.DonationStatusAvailable {
		return nil, domain.ErrAlreadyAccepted
	}

	acceptance := &entities.DonationAcceptance{
		ID:         uuid.New(),
		DonationID: donationID,
		AcceptorID: acceptorID,
		DistanceKm: distanceKm,
		AcceptedAt: time.Now(),
	}
	r.acceptances[donationID.String()] = acceptance
	donation.Status = domain.DonationStatusAccepted
	r.points[donation.DonorID.String()] += points

	return acceptance, nil
}

func (r *memoryDonationRepository) CompleteDonation(ctx context.Context, donationID string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	donation, ok := r.donations[donationID]
	if !ok || donation.Status != domain.DonationStatusAccepted {
		return domain.ErrInvalidTransition
	}
	donation.Status = domain.DonationStatusCompleted
	if acceptance, ok := r.acceptances[donationID]; ok {
		acceptance.CompletedAt = &completedAt
	}
	return nil
}

func (r *memoryDonationRepository) GetAcceptanceByDonationID(ctx context.Context, donationID string) (*entities.DonationAcceptance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acceptance, ok := r.acceptances[donationID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return acceptance, nil
}

func (r *memoryDonationRepository) GetAcceptanceHistory(ctx context.Context, acceptorID string, limit int) ([]*entities.DonationAcceptance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.DonationAcceptance
	for _, acceptance := range r.acceptances {
		if acceptance.AcceptorID.String() == acceptorID {
			result = append(result, acceptance)
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *memoryDonationRepository) RateAcceptance(ctx context.Context, acceptanceID string, rating int, feedback string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, acceptance := range r.acceptances {
		if acceptance.ID.String() == acceptanceID {
			acceptance.Rating = &rating
			acceptance.Feedback = feedback
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memoryDonationRepository) GetDonationStatistics(ctx context.Context, donorID string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := map[string]int64{}
	for _, donation := range r.donations {
		if donation.DonorID.String() != donorID {
			continue
		}
		stats["total"]++
		stats[donation.Status]++
	}
	return stats, nil
}

type memoryUserRepository struct {
	users map[string]*entities.User
}

func (r *memoryUserRepository) CreateUser(ctx context.Context, user *entities.User) error {
	r.users[user.ID.String()] = user
	return nil
}

func (r *memoryUserRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *memoryUserRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	r.users[user.ID.String()] = user
	return nil
}

func (r *memoryUserRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	if user, ok := r.users[id]; ok {
		user.IsVerified = verified
	}
	return nil
}

func (r *memoryUserRepository) UpdatePreferredFoodTypes(ctx context.Context, id string, preferences string) error {
	if user, ok := r.users[id]; ok {
		user.PreferredFoodTypes = preferences
	}
	return nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) AnalyzeFoodImage(ctx context.Context, image []byte, mimeType string) domain.FoodAnalysis {
	return domain.DefaultFoodAnalysis()
}

type fixture struct {
	repo     *memoryDonationRepository
	users    *memoryUserRepository
	service  DonationService
	donor    *entities.User
	acceptor *entities.User
}

func newFixture() *fixture {
	repo := newMemoryDonationRepository()
	users := &memoryUserRepository{users: map[string]*entities.User{}}

	donor := &entities.User{
		ID:         uuid.New(),
		Email:      "donor@example.com",
		Role:       domain.RoleDonor,
		IsVerified: true,
	}
	lat, lon := 24.8650, 67.0150
	acceptor := &entities.User{
		ID:         uuid.New(),
		Email:      "ngo@example.com",
		Role:       domain.RoleAcceptor,
		IsVerified: true,
		Latitude:   &lat,
		Longitude:  &lon,
	}
	users.users[donor.ID.String()] = donor
	users.users[acceptor.ID.String()] = acceptor

	return &fixture{
		repo:     repo,
		users:    users,
		service:  NewDonationService(repo, users, stubAnalyzer{}, storage.AwsS3{}),
		donor:    donor,
		acceptor: acceptor,
	}
}

func (f *fixture) seedDonation(status string) *entities.Donation {
	donation := &entities.Donation{
		ID:             uuid.New(),
		DonorID:        f.donor.ID,
		FoodName:       "Biryani",
		FoodType:       domain.FoodTypeMixed,
		Quantity:       "10 plates",
		PickupAddress:  "Gulshan-e-Iqbal, Karachi",
		Latitude:       24.8600,
		Longitude:      67.0100,
		AvailableUntil: time.Now().Add(6 * time.Hour),
		Status:         status,
	}
	f.repo.donations[donation.ID.String()] = donation
	return donation
}

func TestSubmitDonationWithoutImage(t *testing.T) {
	f := newFixture()

	result, err := f.service.SubmitDonation(context.Background(), domain.SubmitDonationRequest{
		FoodName:       "Daal Chawal",
		FoodType:       domain.FoodTypeVegetarian,
		Quantity:       "20 servings",
		PickupAddress:  "DHA Phase 5, Karachi",
		Latitude:       24.8000,
		Longitude:      67.0400,
		AvailableUntil: time.Now().Add(8 * time.Hour).Format(time.RFC3339),
	}, f.donor.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, domain.DonationStatusAvailable, result.Status)
	assert.Empty(t, result.ImageURL)
	assert.Nil(t, result.AIQualityScore)
	assert.Len(t, f.repo.donations, 1)
}

func TestSubmitDonationValidation(t *testing.T) {
	f := newFixture()
	base := domain.SubmitDonationRequest{
		FoodName:       "Daal Chawal",
		FoodType:       domain.FoodTypeVegetarian,
		Quantity:       "20 servings",
		PickupAddress:  "DHA Phase 5, Karachi",
		Latitude:       24.8000,
		Longitude:      67.0400,
		AvailableUntil: time.Now().Add(8 * time.Hour).Format(time.RFC3339),
	}

	badType := base
	badType.FoodType = "halal"
	_, err := f.service.SubmitDonation(context.Background(), badType, f.donor.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidFoodType)

	badCoords := base
	badCoords.Latitude = 91
	_, err = f.service.SubmitDonation(context.Background(), badCoords, f.donor.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)

	pastWindow := base
	pastWindow.AvailableUntil = time.Now().Add(-time.Hour).Format(time.RFC3339)
	_, err = f.service.SubmitDonation(context.Background(), pastWindow, f.donor.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidAvailability)

	badWindow := base
	badWindow.AvailableUntil = "tomorrow evening"
	_, err = f.service.SubmitDonation(context.Background(), badWindow, f.donor.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidAvailability)

	_, err = f.service.SubmitDonation(context.Background(), base, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestAcceptDonationHappyPath(t *testing.T) {
	f := newFixture()
	donation := f.seedDonation(domain.DonationStatusAvailable)

	acceptance, err := f.service.AcceptDonation(context.Background(), donation.ID.String(), f.acceptor.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, donation.ID.String(), acceptance.DonationID)
	assert.Equal(t, f.acceptor.ID.String(), acceptance.AcceptorID)
	assert.Equal(t, 0.75, acceptance.DistanceKm)
	assert.Equal(t, domain.DonationStatusAccepted, f.repo.donations[donation.ID.String()].Status)
	assert.Equal(t, domain.GreenPointsPerAccept, f.repo.points[f.donor.ID.String()])
}

func TestAcceptDonationConcurrentExactlyOneWins(t *testing.T) {
	f := newFixture()
	donation := f.seedDonation(domain.DonationStatusAvailable)

	const racers = 8
	acceptors := make([]*entities.User, racers)
	for i := range acceptors {
		lat, lon := 24.8650, 67.0150
		acceptors[i] = &entities.User{
			ID:         uuid.New(),
			Role:       domain.RoleAcceptor,
			IsVerified: true,
			Latitude:   &lat,
			Longitude:  &lon,
		}
		f.users.users[acceptors[i].ID.String()] = acceptors[i]
	}

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.AcceptDonation(context.Background(), donation.ID.String(), acceptors[i].ID.String())
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, domain.ErrAlreadyAccepted)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, domain.GreenPointsPerAccept, f.repo.points[f.donor.ID.String()])
	assert.Len(t, f.repo.acceptances, 1)
}

func TestAcceptDonationGuards(t *testing.T) {
	f := newFixture()

	accepted := f.seedDonation(domain.DonationStatusAccepted)
	_, err := f.service.AcceptDonation(context.Background(), accepted.ID.String(), f.acceptor.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyAccepted)

	cancelled := f.seedDonation(domain.DonationStatusCancelled)
	_, err = f.service.AcceptDonation(context.Background(), cancelled.ID.String(), f.acceptor.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	expired := f.seedDonation(domain.DonationStatusAvailable)
	expired.AvailableUntil = time.Now().Add(-time.Minute)
	_, err = f.service.AcceptDonation(context.Background(), expired.ID.String(), f.acceptor.ID.String())
	assert.ErrorIs(t, err, domain.ErrDonationExpired)

	_, err = f.service.AcceptDonation(context.Background(), uuid.NewString(), f.acceptor.ID.String())
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)
}

func TestAcceptDonationAcceptorChecks(t *testing.T) {
	f := newFixture()
	donation := f.seedDonation(domain.DonationStatusAvailable)

	_, err := f.service.AcceptDonation(context.Background(), donation.ID.String(), f.donor.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotAnAcceptor)

	f.acceptor.IsVerified = false
	_, err = f.service.AcceptDonation(context.Background(), donation.ID.String(), f.acceptor.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotVerified)

	f.acceptor.IsVerified = true
	f.acceptor.Latitude = nil
	_, err = f.service.AcceptDonation(context.Background(), donation.ID.String(), f.acceptor.ID.String())
	assert.ErrorIs(t, err, domain.ErrMissingLocation)
}

func TestCompleteDonation(t *testing.T) {
	f := newFixture()
	donation := f.seedDonation(domain.DonationStatusAvailable)

	// Completing an available donation skips the accepted step.
	err := f.service.CompleteDonation(context.Background(), donation.ID.String(), f.donor.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.service.AcceptDonation(context.Background(), donation.ID.String(), f.acceptor.ID.String())
	assert.NoError(t, err)

	stranger := uuid.NewString()
	err = f.service.CompleteDonation(context.Background(), donation.ID.String(), stranger)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedDonationAccess)

	err = f.service.CompleteDonation(context.Background(), donation.ID.String(), f.acceptor.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, domain.DonationStatusCompleted, f.repo.donations[donation.ID.String()].Status)
	assert.NotNil(t, f.repo.acceptances[donation.ID.String()].CompletedAt)

	err = f.service.CompleteDonation(context.Background(), donation.ID.String(), f.acceptor.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelDonation(t *testing.T) {
	f := newFixture()

	available := f.seedDonation(domain.DonationStatusAvailable)
	err := f.service.CancelDonation(context.Background(), available.ID.String(), f.acceptor.ID.String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedDonationAccess)

	err = f.service.CancelDonation(context.Background(), available.ID.String(), f.donor.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, domain.DonationStatusCancelled, f.repo.donations[available.ID.String()].Status)

	err = f.service.CancelDonation(context.Background(), available.ID.String(), f.donor.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// After acceptance either party may cancel.
	accepted := f.seedDonation(domain.DonationStatusAvailable)
	_, err = f.service.AcceptDonation(context.Background(), accepted.ID.String(), f.acceptor.ID.String())
	assert.NoError(t, err)

	err = f.service.CancelDonation(context.Background(), accepted.ID.String(), f.acceptor.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, domain.DonationStatusCancelled, f.repo.donations[accepted.ID.String()].Status)
	// Credited points are not revoked.
	assert.Equal(t, domain.GreenPointsPerAccept, f.repo.points[f.donor.ID.String()])
}

func TestRateDonation(t *testing.T) {
	f := newFixture()
	donation := f.seedDonation(domain.DonationStatusAvailable)

	_, err := f.service.AcceptDonation(context.Background(), donation.ID.String(), f.acceptor.ID.String())
	assert.NoError(t, err)

	err = f.service.RateDonation(context.Background(), donation.ID.String(), f.acceptor.ID.String(), domain.RateDonationRequest{Rating: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	err = f.service.CompleteDonation(context.Background(), donation.ID.String(), f.acceptor.ID.String())
	assert.NoError(t, err)

	err = f.service.RateDonation(context.Background(), donation.ID.String(), f.acceptor.ID.String(), domain.RateDonationRequest{Rating: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	err = f.service.RateDonation(context.Background(), donation.ID.String(), f.donor.ID.String(), domain.RateDonationRequest{Rating: 4})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedDonationAccess)

	err = f.service.RateDonation(context.Background(), donation.ID.String(), f.acceptor.ID.String(), domain.RateDonationRequest{
		Rating:   4,
		Feedback: "food was fresh and well packed",
	})
	assert.NoError(t, err)

	acceptance := f.repo.acceptances[donation.ID.String()]
	assert.Equal(t, 4, *acceptance.Rating)
	assert.Equal(t, "food was fresh and well packed", acceptance.Feedback)
}

func TestGetDonationStatistics(t *testing.T) {
	f := newFixture()
	f.seedDonation(domain.DonationStatusAvailable)
	f.seedDonation(domain.DonationStatusAccepted)
	f.seedDonation(domain.DonationStatusCompleted)
	f.seedDonation(domain.DonationStatusCompleted)
	f.seedDonation(domain.DonationStatusCancelled)

	stats, err := f.service.GetDonationStatistics(context.Background(), f.donor.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, 5, stats.TotalDonations)
	assert.Equal(t, 1, stats.AvailableDonations)
	assert.Equal(t, 1, stats.AcceptedDonations)
	assert.Equal(t, 2, stats.CompletedDonations)
	assert.Equal(t, 1, stats.CancelledDonations)
	assert.Equal(t, 3*domain.GreenPointsPerAccept, stats.GreenPointsEarned)
}

func TestGetDonationByIDNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.GetDonationByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)
}
