package entities

import (
	"github.com/google/uuid"
)

type Insight struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Title   string    `json:"title"`
	Message string    `gorm:"type:text" json:"message"`

	Timestamp
}
