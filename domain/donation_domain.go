package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

const (
	FoodTypeVegetarian    = "vegetarian"
	FoodTypeNonVegetarian = "non-vegetarian"
	FoodTypeVegan         = "vegan"
	FoodTypeMixed         = "mixed"

	DonationStatusAvailable = "available"
	DonationStatusAccepted  = "accepted"
	DonationStatusCompleted = "completed"
	DonationStatusCancelled = "cancelled"

	// Fixed reward credited to the donor when a donation is accepted.
	GreenPointsPerAccept = 100
)

var (
	MessageSuccessCreateDonation   = "donation created successfully"
	MessageSuccessGetDonations     = "donations retrieved successfully"
	MessageSuccessGetNearby        = "nearby donations retrieved successfully"
	MessageSuccessAcceptDonation   = "donation accepted successfully"
	MessageSuccessCompleteDonation = "donation completed successfully"
	MessageSuccessCancelDonation   = "donation cancelled successfully"
	MessageSuccessRateDonation     = "donation rated successfully"
	MessageSuccessGetStatistics    = "donation statistics retrieved successfully"

	MessageFailedCreateDonation   = "failed to create donation"
	MessageFailedGetDonations     = "failed to retrieve donations"
	MessageFailedGetNearby        = "failed to retrieve nearby donations"
	MessageFailedAcceptDonation   = "failed to accept donation"
	MessageFailedCompleteDonation = "failed to complete donation"
	MessageFailedCancelDonation   = "failed to cancel donation"
	MessageFailedRateDonation     = "failed to rate donation"
	MessageFailedGetStatistics    = "failed to retrieve donation statistics"

	ErrDonationNotFound           = errors.New("donation not found")
	ErrDonationExpired            = errors.New("donation is no longer available")
	ErrAlreadyAccepted            = errors.New("donation has already been accepted")
	ErrInvalidTransition          = errors.New("invalid donation status transition")
	ErrUnauthorizedDonationAccess = errors.New("unauthorized access to donation")
	ErrInvalidFoodType            = errors.New("invalid food type")
	ErrInvalidCoordinates         = errors.New("invalid coordinates")
	ErrInvalidAvailability        = errors.New("available_until must be in the future")
	ErrAcceptanceNotFound         = errors.New("acceptance record not found")
	ErrInvalidRating              = errors.New("rating must be between 1 and 5")
)

type (
	SubmitDonationRequest struct {
		FoodName       string                `json:"food_name" form:"food_name" validate:"required"`
		FoodType       string                `json:"food_type" form:"food_type" validate:"required,oneof=vegetarian non-vegetarian vegan mixed"`
		Quantity       string                `json:"quantity" form:"quantity" validate:"required"`
		Description    string                `json:"description" form:"description" validate:"omitempty"`
		PickupAddress  string                `json:"pickup_address" form:"pickup_address" validate:"required"`
		Latitude       float64               `json:"latitude" form:"latitude" validate:"required"`
		Longitude      float64               `json:"longitude" form:"longitude" validate:"required"`
		AvailableUntil string                `json:"available_until" form:"available_until" validate:"required"`
		FoodImage      *multipart.FileHeader `json:"food_image" form:"food_image"`
	}

	Donation struct {
		ID                 string     `json:"id"`
		DonorID            string     `json:"donor_id"`
		FoodName           string     `json:"food_name"`
		FoodType           string     `json:"food_type"`
		Quantity           string     `json:"quantity"`
		Description        string     `json:"description,omitempty"`
		PickupAddress      string     `json:"pickup_address"`
		Latitude           float64    `json:"latitude"`
		Longitude          float64    `json:"longitude"`
		AvailableUntil     time.Time  `json:"available_until"`
		Status             string     `json:"status"`
		ImageURL           string     `json:"image_url,omitempty"`
		AIQualityScore     *float64   `json:"ai_quality_score,omitempty"`
		AICategory         string     `json:"ai_category,omitempty"`
		AIExpiryPrediction *time.Time `json:"ai_expiry_prediction,omitempty"`
		CreatedAt          time.Time  `json:"created_at"`
	}

	Acceptance struct {
		ID          string     `json:"id"`
		DonationID  string     `json:"donation_id"`
		AcceptorID  string     `json:"acceptor_id"`
		DistanceKm  float64    `json:"distance_km"`
		AcceptedAt  time.Time  `json:"accepted_at"`
		CompletedAt *time.Time `json:"completed_at,omitempty"`
		Rating      *int       `json:"rating,omitempty"`
		Feedback    string     `json:"feedback,omitempty"`
	}

	RateDonationRequest struct {
		Rating   int    `json:"rating" validate:"required,min=1,max=5"`
		Feedback string `json:"feedback" validate:"omitempty"`
	}

	DonationStatistics struct {
		TotalDonations     int `json:"total_donations"`
		AvailableDonations int `json:"available_donations"`
		AcceptedDonations  int `json:"accepted_donations"`
		CompletedDonations int `json:"completed_donations"`
		CancelledDonations int `json:"cancelled_donations"`
		GreenPointsEarned  int `json:"green_points_earned"`
	}
)

func ValidFoodType(foodType string) bool {
	switch foodType {
	case FoodTypeVegetarian, FoodTypeNonVegetarian, FoodTypeVegan, FoodTypeMixed:
		return true
	}
	return false
}
