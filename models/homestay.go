package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Homestay struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `gorm:"column:owner_id;not null;index" json:"ownerId"`

	Name          string          `gorm:"size:255;not null" json:"name"`
	Location      string          `gorm:"size:255" json:"location"`
	Description   string          `gorm:"type:text" json:"description"`
	Category      string          `gorm:"size:100" json:"category"`
	PricePerNight decimal.Decimal `gorm:"column:price_per_night;type:decimal(12,2);not null" json:"pricePerNight"`

	NumberOfRooms int `gorm:"column:number_of_rooms;not null" json:"numberOfRooms"`
	MaxGuests     int `gorm:"column:max_guests" json:"maxGuests"`

	// stored as JSON arrays of strings
	Amenities datatypes.JSON `gorm:"column:amenities" json:"amenities"`
	ImageURLs datatypes.JSON `gorm:"column:image_urls" json:"imageUrls"`

	// owner can pause/unpause the listing
	IsVisible bool `gorm:"column:is_visible;not null" json:"isVisible"`

	Owner User `gorm:"foreignKey:OwnerID;references:ID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FirstImage returns the first image url, or "" when there is none or the column is malformed.
func (h Homestay) FirstImage() string {
	if len(h.ImageURLs) == 0 {
		return ""
	}
	var urls []string
	if err := json.Unmarshal(h.ImageURLs, &urls); err != nil || len(urls) == 0 {
		return ""
	}
	return urls[0]
}
