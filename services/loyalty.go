package services

import (
	"errors"
	"fmt"

	"homestay-backend/models"

	"gorm.io/gorm"
)

// PointsBalance reads a tourist's loyalty balance.
func PointsBalance(tx *gorm.DB, touristID uint) (int, error) {
	var u models.User
	if err := tx.Select("id", "quiz_points").First(&u, touristID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTouristNotFound
		}
		return 0, fmt.Errorf("failed to read points balance: %w", err)
	}
	return u.Points, nil
}

// RedeemPoints debits points only if the live balance still covers them, so a
// balance read earlier in the request cannot go negative. Points are never
// credited back on cancellation or rejection.
func RedeemPoints(tx *gorm.DB, touristID uint, points int) error {
	if points <= 0 {
		return nil
	}
	res := tx.Model(&models.User{}).
		Where("id = ? AND quiz_points >= ?", touristID, points).
		UpdateColumn("quiz_points", gorm.Expr("quiz_points - ?", points))
	if res.Error != nil {
		return fmt.Errorf("failed to debit points: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}
