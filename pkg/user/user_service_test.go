package user

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"
	"FoodBridge-Backend/pkg/jwt"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type memoryUserRepository struct {
	users map[string]*entities.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: map[string]*entities.User{}}
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

func registerRequest(role string) domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:    "someone@example.com",
		Password: "supersecret",
		FullName: "Someone",
		Role:     role,
	}
}

func TestRegisterDonorIsVerifiedImmediately(t *testing.T) {
	repo := newMemoryUserRepository()
	service := NewUserService(repo, jwt.NewJWTService())

	profile, err := service.Register(context.Background(), registerRequest(domain.RoleDonor))

	assert.NoError(t, err)
	assert.True(t, profile.IsVerified)
	assert.Equal(t, domain.RoleDonor, profile.Role)
	assert.Equal(t, 0, profile.GreenPoints)
}

func TestRegisterAcceptorStartsUnverified(t *testing.T) {
	repo := newMemoryUserRepository()
	service := NewUserService(repo, jwt.NewJWTService())

	profile, err := service.Register(context.Background(), registerRequest(domain.RoleAcceptor))

	assert.NoError(t, err)
	assert.False(t, profile.IsVerified)
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newMemoryUserRepository()
	service := NewUserService(repo, jwt.NewJWTService())

	profile, err := service.Register(context.Background(), registerRequest(domain.RoleDonor))
	assert.NoError(t, err)

	stored := repo.users[profile.ID]
	assert.NotEqual(t, "supersecret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("supersecret")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemoryUserRepository()
	service := NewUserService(repo, jwt.NewJWTService())

	_, err := service.Register(context.Background(), registerRequest(domain.RoleDonor))
	assert.NoError(t, err)

	_, err = service.Register(context.Background(), registerRequest(domain.RoleAcceptor))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterRejectsAdminRoleAndBadCoordinates(t *testing.T) {
	repo := newMemoryUserRepository()
	service := NewUserService(repo, jwt.NewJWTService())

	_, err := service.Register(context.Background(), registerRequest(domain.RoleAdmin))
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	req := registerRequest(domain.RoleAcceptor)
	lat, lon := 95.0, 67.01
	req.Latitude = &lat
	req.Longitude = &lon
	_, err = service.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
}

func TestLogin(t *testing.T) {
	repo := newMemoryUserRepository()
	service := NewUserService(repo, jwt.NewJWTService())

	_, err := service.Register(context.Background(), registerRequest(domain.RoleDonor))
	assert.NoError(t, err)

	response, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "someone@example.com",
		Password: "supersecret",
	})
	assert.NoError(t, err)
	assert.Equal(t, "someone@example.com", response.User.Email)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email:    "someone@example.com",
		Password: "wrongpassword",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "supersecret",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateProfileLocation(t *testing.T) {
	repo := newMemoryUserRepository()
	service := NewUserService(repo, jwt.NewJWTService())

	profile, err := service.Register(context.Background(), registerRequest(domain.RoleAcceptor))
	assert.NoError(t, err)

	lat, lon := 24.8600, 67.0100
	updated, err := service.UpdateProfile(context.Background(), domain.UpdateProfileRequest{
		Latitude:  &lat,
		Longitude: &lon,
		City:      "Karachi",
	}, profile.ID)

	assert.NoError(t, err)
	assert.Equal(t, 24.8600, *updated.Latitude)
	assert.Equal(t, "Karachi", updated.City)

	badLat := 100.0
	_, err = service.UpdateProfile(context.Background(), domain.UpdateProfileRequest{
		Latitude:  &badLat,
		Longitude: &lon,
	}, profile.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
}

func TestVerifyAcceptor(t *testing.T) {
	repo := newMemoryUserRepository()
	service := NewUserService(repo, jwt.NewJWTService())

	acceptor, err := service.Register(context.Background(), registerRequest(domain.RoleAcceptor))
	assert.NoError(t, err)

	err = service.VerifyAcceptor(context.Background(), acceptor.ID)
	assert.NoError(t, err)
	assert.True(t, repo.users[acceptor.ID].IsVerified)

	donorReq := registerRequest(domain.RoleDonor)
	donorReq.Email = "donor@example.com"
	donor, err := service.Register(context.Background(), donorReq)
	assert.NoError(t, err)

	err = service.VerifyAcceptor(context.Background(), donor.ID)
	assert.ErrorIs(t, err, domain.ErrNotAnAcceptor)

	err = service.VerifyAcceptor(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
