package user

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"
	"FoodBridge-Backend/pkg/geo"
	"FoodBridge-Backend/pkg/jwt"
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (*domain.UserProfile, error)
		Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (*domain.UserProfile, error)
		UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, userID string) (*domain.UserProfile, error)
		VerifyAcceptor(ctx context.Context, acceptorID string) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.UserProfile, error) {
	if req.Role != domain.RoleDonor && req.Role != domain.RoleAcceptor {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if req.Latitude != nil && req.Longitude != nil {
		coord := geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if err := coord.Validate(); err != nil {
			return nil, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:               uuid.New(),
		Email:            req.Email,
		Password:         string(hashed),
		FullName:         req.FullName,
		Role:             req.Role,
		Phone:            req.Phone,
		OrganizationName: req.OrganizationName,
		Address:          req.Address,
		City:             req.City,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		// Acceptors start unverified; an admin flips this after reviewing
		// the organization. Donors need no verification.
		IsVerified: req.Role == domain.RoleDonor,
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return toUserProfile(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)

	return &domain.LoginResponse{
		Token: token,
		User:  *toUserProfile(user),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return toUserProfile(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, userID string) (*domain.UserProfile, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.OrganizationName != "" {
		user.OrganizationName = req.OrganizationName
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.City != "" {
		user.City = req.City
	}
	if req.Latitude != nil && req.Longitude != nil {
		coord := geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if err := coord.Validate(); err != nil {
			return nil, err
		}
		user.Latitude = req.Latitude
		user.Longitude = req.Longitude
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return toUserProfile(user), nil
}

func (s *userService) VerifyAcceptor(ctx context.Context, acceptorID string) error {
	user, err := s.userRepository.GetUserByID(ctx, acceptorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if user.Role != domain.RoleAcceptor {
		return domain.ErrNotAnAcceptor
	}

	return s.userRepository.SetVerified(ctx, acceptorID, true)
}

func toUserProfile(user *entities.User) *domain.UserProfile {
	return &domain.UserProfile{
		ID:                 user.ID.String(),
		Email:              user.Email,
		FullName:           user.FullName,
		Role:               user.Role,
		Phone:              user.Phone,
		OrganizationName:   user.OrganizationName,
		Address:            user.Address,
		City:               user.City,
		Latitude:           user.Latitude,
		Longitude:          user.Longitude,
		IsVerified:         user.IsVerified,
		GreenPoints:        user.GreenPoints,
		PreferredFoodTypes: user.PreferredFoodTypeList(),
		CreatedAt:          user.CreatedAt,
	}
}
