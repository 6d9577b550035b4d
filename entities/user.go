package entities

import (
	"strings"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email            string    `gorm:"uniqueIndex" json:"email"`
	Password         string    `json:"-"`
	FullName         string    `json:"full_name"`
	Role             string    `json:"role"` // donor, acceptor, admin
	Phone            string    `json:"phone,omitempty"`
	OrganizationName string    `json:"organization_name,omitempty"`
	Address          string    `json:"address,omitempty"`
	City             string    `json:"city,omitempty"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	IsVerified       bool      `json:"is_verified"`
	GreenPoints      int       `json:"green_points"`

	// Closed FoodType vocabulary, comma-joined. Written only by the
	// behavior analyzer after allow-list filtering.
	PreferredFoodTypes string `json:"preferred_food_types,omitempty"`

	Donations []*Donation `gorm:"foreignKey:DonorID"`
	Timestamp
}

func (u *User) PreferredFoodTypeList() []string {
	if u.PreferredFoodTypes == "" {
		return nil
	}
	return strings.Split(u.PreferredFoodTypes, ",")
}

func (u *User) SetPreferredFoodTypes(types []string) {
	u.PreferredFoodTypes = strings.Join(types, ",")
}
