package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister           = "user registered successfully"
	MessageSuccessLogin              = "login successful"
	MessageSuccessGetProfile         = "profile retrieved successfully"
	MessageSuccessUpdateProfile      = "profile updated successfully"
	MessageSuccessVerifyAcceptor     = "acceptor verified successfully"
	MessageSuccessRefreshPreferences = "preferences refreshed successfully"

	MessageFailedRegister           = "failed to register user"
	MessageFailedLogin              = "failed to login"
	MessageFailedGetProfile         = "failed to retrieve profile"
	MessageFailedUpdateProfile      = "failed to update profile"
	MessageFailedVerifyAcceptor     = "failed to verify acceptor"
	MessageFailedRefreshPreferences = "failed to refresh preferences"

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrNotVerified        = errors.New("acceptor is not verified")
	ErrMissingLocation    = errors.New("profile has no location set")
	ErrNotAnAcceptor      = errors.New("user is not an acceptor")
)

type (
	RegisterRequest struct {
		Email            string   `json:"email" validate:"required,email"`
		Password         string   `json:"password" validate:"required,min=8"`
		FullName         string   `json:"full_name" validate:"required"`
		Role             string   `json:"role" validate:"required,oneof=donor acceptor"`
		Phone            string   `json:"phone" validate:"omitempty"`
		OrganizationName string   `json:"organization_name" validate:"omitempty"`
		Address          string   `json:"address" validate:"omitempty"`
		City             string   `json:"city" validate:"omitempty"`
		Latitude         *float64 `json:"latitude" validate:"omitempty"`
		Longitude        *float64 `json:"longitude" validate:"omitempty"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string      `json:"token"`
		User  UserProfile `json:"user"`
	}

	UpdateProfileRequest struct {
		FullName         string   `json:"full_name" validate:"omitempty"`
		Phone            string   `json:"phone" validate:"omitempty"`
		OrganizationName string   `json:"organization_name" validate:"omitempty"`
		Address          string   `json:"address" validate:"omitempty"`
		City             string   `json:"city" validate:"omitempty"`
		Latitude         *float64 `json:"latitude" validate:"omitempty"`
		Longitude        *float64 `json:"longitude" validate:"omitempty"`
	}

	UserProfile struct {
		ID                 string    `json:"id"`
		Email              string    `json:"email"`
		FullName           string    `json:"full_name"`
		Role               string    `json:"role"`
		Phone              string    `json:"phone,omitempty"`
		OrganizationName   string    `json:"organization_name,omitempty"`
		Address            string    `json:"address,omitempty"`
		City               string    `json:"city,omitempty"`
		Latitude           *float64  `json:"latitude,omitempty"`
		Longitude          *float64  `json:"longitude,omitempty"`
		IsVerified         bool      `json:"is_verified"`
		GreenPoints        int       `json:"green_points"`
		PreferredFoodTypes []string  `json:"preferred_food_types,omitempty"`
		CreatedAt          time.Time `json:"created_at"`
	}
)
