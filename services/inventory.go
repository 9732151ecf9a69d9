package services

import (
	"errors"
	"fmt"

	"homestay-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventorySnapshot is a read-only view of a homestay at request time.
type InventorySnapshot struct {
	HomestayID   uint
	OwnerID      uint
	RoomCount    int
	NightlyPrice decimal.Decimal
	Visible      bool
}

func snapshotOf(h *models.Homestay) InventorySnapshot {
	return InventorySnapshot{
		HomestayID:   h.ID,
		OwnerID:      h.OwnerID,
		RoomCount:    h.NumberOfRooms,
		NightlyPrice: h.PricePerNight,
		Visible:      h.IsVisible,
	}
}

// LoadInventory reads a homestay. With lock it holds a row lock on the homestay
// until tx ends; creation and confirmation both take it, so check-then-insert
// on one homestay is serialized.
func LoadInventory(tx *gorm.DB, homestayID uint, lock bool) (InventorySnapshot, error) {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var h models.Homestay
	if err := q.Select("id", "owner_id", "number_of_rooms", "price_per_night", "is_visible").
		First(&h, homestayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InventorySnapshot{}, ErrHomestayNotFound
		}
		return InventorySnapshot{}, fmt.Errorf("failed to load homestay %d: %w", homestayID, err)
	}
	return snapshotOf(&h), nil
}
