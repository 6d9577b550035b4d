package entities

import (
	"time"

	"github.com/google/uuid"
)

type Donation struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonorID        uuid.UUID `json:"donor_id"`
	FoodName       string    `json:"food_name"`
	FoodType       string    `json:"food_type"` // vegetarian, non-vegetarian, vegan, mixed
	Quantity       string    `json:"quantity"`
	Description    string    `json:"description,omitempty"`
	PickupAddress  string    `json:"pickup_address"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AvailableUntil time.Time `json:"available_until"`
	Status         string    `json:"status"` // available, accepted, completed, cancelled
	ImageURL       string    `json:"image_url,omitempty"`

	// Enrichment from the image analyzer. Nil when no image was submitted
	// or the analysis fell back to defaults without an expiry estimate.
	AIQualityScore     *float64   `json:"ai_quality_score,omitempty"`
	AICategory         string     `json:"ai_category,omitempty"`
	AIExpiryPrediction *time.Time `json:"ai_expiry_prediction,omitempty"`

	Donor      *User               `gorm:"foreignKey:DonorID"`
	Acceptance *DonationAcceptance `gorm:"foreignKey:DonationID"`
	Timestamp
}

type DonationAcceptance struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonationID uuid.UUID `gorm:"uniqueIndex" json:"donation_id"`
	AcceptorID uuid.UUID `json:"acceptor_id"`
	DistanceKm float64   `json:"distance_km"`
	AcceptedAt time.Time `json:"accepted_at"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Rating      *int       `json:"rating,omitempty"` // 1-5
	Feedback    string     `json:"feedback,omitempty"`

	Donation *Donation `gorm:"foreignKey:DonationID"`
	Acceptor *User     `gorm:"foreignKey:AcceptorID"`
	Timestamp
}
