package services

import (
	"context"
	"fmt"
	"strings"

	"homestay-backend/models"

	"gorm.io/gorm"
)

func homestayDisplay(db *gorm.DB) *gorm.DB {
	return db.Select("id", "owner_id", "name", "location", "image_urls")
}

func touristDisplay(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "phone_number")
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// ListForTourist returns the caller's bookings with homestay display fields.
func (s *BookingService) ListForTourist(ctx context.Context, p Principal) ([]models.Booking, error) {
	if !p.IsTourist() {
		return nil, ErrForbidden
	}
	var list []models.Booking
	if err := s.DB.WithContext(ctx).
		Preload("Homestay", homestayDisplay).
		Where("tourist_id = ?", p.UserID).
		Scopes(newestFirst).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}

// ListForOwner returns bookings across every homestay the caller owns.
func (s *BookingService) ListForOwner(ctx context.Context, p Principal) ([]models.Booking, error) {
	if !p.IsOwner() {
		return nil, ErrForbidden
	}
	db := s.DB.WithContext(ctx)
	owned := db.Model(&models.Homestay{}).Select("id").Where("owner_id = ?", p.UserID)

	var list []models.Booking
	if err := db.
		Preload("Homestay", homestayDisplay).
		Preload("Tourist", touristDisplay).
		Where("homestay_id IN (?)", owned).
		Scopes(newestFirst).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve owner bookings: %w", err)
	}
	return list, nil
}

// ParseStatusFilter treats an empty filter as "all statuses".
func ParseStatusFilter(raw string) (*models.BookingStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	st, ok := models.ParseBookingStatus(raw)
	if !ok {
		return nil, ErrInvalidStatus
	}
	return &st, nil
}

// ListAll is the admin view over every booking.
func (s *BookingService) ListAll(ctx context.Context, p Principal, rawStatus string) ([]models.Booking, error) {
	if !CanViewAll(p.Role) {
		return nil, ErrForbidden
	}
	filter, err := ParseStatusFilter(rawStatus)
	if err != nil {
		return nil, err
	}

	q := s.DB.WithContext(ctx).
		Preload("Homestay", homestayDisplay).
		Preload("Tourist", touristDisplay)
	if filter != nil {
		q = q.Where("status = ?", *filter)
	}

	var list []models.Booking
	if err := q.Scopes(newestFirst).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}

// Get returns one booking to its tourist, the homestay owner or an admin.
func (s *BookingService) Get(ctx context.Context, p Principal, id uint) (*models.Booking, error) {
	db := s.DB.WithContext(ctx)
	b, err := findBooking(db.Preload("Homestay", homestayDisplay).Preload("Tourist", touristDisplay), id, false)
	if err != nil {
		return nil, err
	}
	inv := InventorySnapshot{HomestayID: b.Homestay.ID, OwnerID: b.Homestay.OwnerID}
	if !CanView(p, b, inv) {
		return nil, ErrForbidden
	}
	return b, nil
}
