package services

import (
	"fmt"
	"time"

	"homestay-backend/models"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// DateRange is the half-open interval [CheckIn, CheckOut).
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Overlaps is the half-open intersection test.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.CheckIn.Before(o.CheckOut) && r.CheckOut.After(o.CheckIn)
}

// Nights counts calendar days between check-in and check-out.
func (r DateRange) Nights() int {
	return NightsBetween(r.CheckIn, r.CheckOut)
}

func NightsBetween(checkIn, checkOut time.Time) int {
	ci := dateOnly(checkIn)
	co := dateOnly(checkOut)
	return int(co.Sub(ci).Hours() / 24)
}

// dateOnly drops the clock and zone, keeping the calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the UTC calendar date.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a date", ErrInvalidDates, raw)
	}
	return dateOnly(t), nil
}

// CheckAvailability rejects requests that exceed the homestay's rooms, then
// any date overlap with a Confirmed booking, whatever its room count.
// excludeID skips the booking being confirmed.
func CheckAvailability(tx *gorm.DB, inv InventorySnapshot, stay DateRange, rooms int, excludeID uint) error {
	if rooms < 1 {
		return ErrInvalidRooms
	}
	if rooms > inv.RoomCount {
		return fmt.Errorf("%w: only %d rooms available", ErrCapacityExceeded, inv.RoomCount)
	}

	q := tx.Model(&models.Booking{}).
		Where("homestay_id = ? AND status = ?", inv.HomestayID, models.BookingConfirmed).
		Where("check_in < ? AND check_out > ?", stay.CheckOut, stay.CheckIn)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var conflicts int64
	if err := q.Count(&conflicts).Error; err != nil {
		return fmt.Errorf("failed to check availability: %w", err)
	}
	if conflicts > 0 {
		return ErrDateConflict
	}
	return nil
}
