// services/booking_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"homestay-backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService owns the Booking entity and its status workflow.
type BookingService struct {
	DB  *gorm.DB
	Log *zap.Logger
	Now func() time.Time
}

func NewBookingService(db *gorm.DB, log *zap.Logger) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{
		DB:  db,
		Log: log.Named("booking"),
		Now: func() time.Time { return time.Now().UTC() },
	}
}

type CreateBookingInput struct {
	HomestayID      uint
	CheckIn         time.Time
	CheckOut        time.Time
	Rooms           int
	Guests          int
	PointsToRedeem  int
	PaymentMethod   string // empty means PayAtArrival
	SpecialRequests string
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Create turns a tourist's request into a Pending booking. Homestay lock,
// availability check, points debit and insert share one transaction: any
// failure leaves neither the booking nor the debit behind.
func (s *BookingService) Create(ctx context.Context, p Principal, in CreateBookingInput) (*models.Booking, error) {
	if !CanCreate(p.Role) {
		return nil, ErrForbidden
	}

	stay := DateRange{CheckIn: dateOnly(in.CheckIn), CheckOut: dateOnly(in.CheckOut)}
	if !stay.CheckOut.After(stay.CheckIn) {
		return nil, ErrInvalidDates
	}
	nights := stay.Nights()
	if nights < 1 {
		return nil, ErrInvalidDates
	}
	if in.Rooms < 1 {
		return nil, ErrInvalidRooms
	}
	if in.Guests < 1 {
		return nil, ErrInvalidGuests
	}

	method := models.PayAtArrival
	if strings.TrimSpace(in.PaymentMethod) != "" {
		m, ok := models.ParsePaymentMethod(in.PaymentMethod)
		if !ok {
			return nil, ErrInvalidPaymentMethod
		}
		method = m
	}

	var booking models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := LoadInventory(tx, in.HomestayID, true)
		if err != nil {
			return err
		}
		if !inv.Visible {
			return ErrHomestayUnavailable
		}
		if err := CheckAvailability(tx, inv, stay, in.Rooms, 0); err != nil {
			return err
		}

		balance := 0
		if in.PointsToRedeem > 0 {
			if balance, err = PointsBalance(tx, p.UserID); err != nil {
				return err
			}
		}
		quote := Price(PriceInput{
			NightlyRate:    inv.NightlyPrice,
			Rooms:          in.Rooms,
			Nights:         nights,
			PointsToRedeem: in.PointsToRedeem,
			PointsBalance:  balance,
		})
		if err := RedeemPoints(tx, p.UserID, quote.PointsRedeemed); err != nil {
			return err
		}

		now := s.Now()
		booking = models.Booking{
			HomestayID:      inv.HomestayID,
			TouristID:       p.UserID,
			CheckIn:         stay.CheckIn,
			CheckOut:        stay.CheckOut,
			Rooms:           in.Rooms,
			Guests:          in.Guests,
			PricePerNight:   inv.NightlyPrice,
			Nights:          nights,
			SubTotal:        quote.SubTotal,
			PointsRedeemed:  quote.PointsRedeemed,
			PointsDiscount:  quote.PointsDiscount,
			TotalPrice:      quote.Total,
			Status:          models.BookingPending,
			PaymentMethod:   method,
			PaymentStatus:   models.PaymentUnpaid,
			SpecialRequests: optionalText(in.SpecialRequests),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.Omit(clause.Associations).Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("booking created",
		zap.Uint("booking_id", booking.ID),
		zap.Uint("homestay_id", booking.HomestayID),
		zap.Uint("tourist_id", booking.TouristID),
		zap.Int("nights", booking.Nights),
		zap.Int("points_redeemed", booking.PointsRedeemed),
		zap.String("total", booking.TotalPrice.StringFixed(2)),
	)
	return &booking, nil
}

func findBooking(tx *gorm.DB, id uint, lock bool) (*models.Booking, error) {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var b models.Booking
	if err := q.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &b, nil
}

// setStatus writes the new status plus any extra columns and bumps updated_at.
func (s *BookingService) setStatus(tx *gorm.DB, b *models.Booking, to models.BookingStatus, extra map[string]interface{}) error {
	now := s.Now()
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": now,
	}
	for k, v := range extra {
		updates[k] = v
	}
	if err := tx.Model(&models.Booking{}).Where("id = ?", b.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update booking %d: %w", b.ID, err)
	}
	b.Status = to
	b.UpdatedAt = now
	return nil
}

// Cancel is the tourist's own cancellation. Cancelling an already cancelled
// booking is a no-op. Redeemed points are not returned.
func (s *BookingService) Cancel(ctx context.Context, p Principal, id uint) (*models.Booking, error) {
	var booking *models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := findBooking(tx, id, true)
		if err != nil {
			return err
		}
		if !CanCancel(p, b) {
			return ErrForbidden
		}
		booking = b

		switch b.Status {
		case models.BookingCancelled:
			return nil
		case models.BookingPending, models.BookingConfirmed:
			return s.setStatus(tx, b, models.BookingCancelled, nil)
		default:
			return ErrCannotCancel
		}
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info("booking cancelled by tourist", zap.Uint("booking_id", id), zap.Uint("tourist_id", p.UserID))
	return booking, nil
}

// ownerTransition loads the booking and its homestay, checks the caller may
// moderate it and runs apply inside one transaction. lockHomestay is set by
// transitions that must re-check availability.
func (s *BookingService) ownerTransition(ctx context.Context, p Principal, id uint, lockHomestay bool,
	apply func(tx *gorm.DB, b *models.Booking, inv InventorySnapshot) error) (*models.Booking, error) {

	var booking *models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := findBooking(tx, id, false)
		if err != nil {
			return err
		}
		// homestay first, then booking, the same order Create uses
		inv, err := LoadInventory(tx, b.HomestayID, lockHomestay)
		if err != nil && !errors.Is(err, ErrHomestayNotFound) {
			return err
		}
		if !CanSetStatus(p, b, inv) {
			return ErrForbidden
		}
		if b, err = findBooking(tx, id, true); err != nil {
			return err
		}
		booking = b
		return apply(tx, b, inv)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Confirm accepts a Pending booking. The overlap check is repeated here under
// the homestay lock, since Pending bookings never blocked each other.
func (s *BookingService) Confirm(ctx context.Context, p Principal, id uint) (*models.Booking, error) {
	b, err := s.ownerTransition(ctx, p, id, true, func(tx *gorm.DB, b *models.Booking, inv InventorySnapshot) error {
		if b.Status != models.BookingPending {
			return ErrInvalidTransition
		}
		stay := DateRange{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
		if err := CheckAvailability(tx, inv, stay, b.Rooms, b.ID); err != nil {
			return err
		}
		return s.setStatus(tx, b, models.BookingConfirmed, nil)
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info("booking confirmed", zap.Uint("booking_id", id), zap.Uint("by", p.UserID))
	return b, nil
}

func (s *BookingService) Reject(ctx context.Context, p Principal, id uint, reason string) (*models.Booking, error) {
	b, err := s.ownerTransition(ctx, p, id, false, func(tx *gorm.DB, b *models.Booking, _ InventorySnapshot) error {
		if b.Status != models.BookingPending {
			return ErrInvalidTransition
		}
		r := optionalText(reason)
		if err := s.setStatus(tx, b, models.BookingRejected, map[string]interface{}{"rejection_reason": r}); err != nil {
			return err
		}
		b.RejectionReason = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info("booking rejected", zap.Uint("booking_id", id), zap.Uint("by", p.UserID))
	return b, nil
}

// OwnerCancel lets the homestay side call off a Pending or Confirmed booking.
func (s *BookingService) OwnerCancel(ctx context.Context, p Principal, id uint) (*models.Booking, error) {
	b, err := s.ownerTransition(ctx, p, id, false, func(tx *gorm.DB, b *models.Booking, _ InventorySnapshot) error {
		switch b.Status {
		case models.BookingCancelled:
			return nil
		case models.BookingPending, models.BookingConfirmed:
			return s.setStatus(tx, b, models.BookingCancelled, nil)
		default:
			return ErrInvalidTransition
		}
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info("booking cancelled by owner", zap.Uint("booking_id", id), zap.Uint("by", p.UserID))
	return b, nil
}

// Complete marks a stay as done. Whatever decides that a stay is over calls
// it with an admin principal; nothing here schedules it.
func (s *BookingService) Complete(ctx context.Context, p Principal, id uint) (*models.Booking, error) {
	if !CanComplete(p.Role) {
		return nil, ErrForbidden
	}

	var booking *models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := findBooking(tx, id, true)
		if err != nil {
			return err
		}
		booking = b
		if b.Status.Terminal() {
			return ErrInvalidTransition
		}
		return s.setStatus(tx, b, models.BookingCompleted, nil)
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info("booking completed", zap.Uint("booking_id", id))
	return booking, nil
}

// UpdateStatus serves the owner's generic status endpoint by dispatching to
// the explicit transitions, so each keeps its own precondition.
func (s *BookingService) UpdateStatus(ctx context.Context, p Principal, id uint, rawStatus, reason string) (*models.Booking, error) {
	db := s.DB.WithContext(ctx)
	b, err := findBooking(db, id, false)
	if err != nil {
		return nil, err
	}
	inv, err := LoadInventory(db, b.HomestayID, false)
	if err != nil && !errors.Is(err, ErrHomestayNotFound) {
		return nil, err
	}
	if !CanSetStatus(p, b, inv) {
		return nil, ErrForbidden
	}

	to, ok := models.ParseBookingStatus(rawStatus)
	if !ok {
		return nil, ErrInvalidStatus
	}
	switch to {
	case models.BookingConfirmed:
		return s.Confirm(ctx, p, id)
	case models.BookingRejected:
		return s.Reject(ctx, p, id, reason)
	case models.BookingCancelled:
		return s.OwnerCancel(ctx, p, id)
	case models.BookingCompleted:
		return s.Complete(ctx, p, id)
	}
	return nil, ErrInvalidTransition
}

// RecordPayment stores the payment outcome reported by the homestay side.
// Refunded requires a prior Paid; Paid is refused on rejected or cancelled bookings.
func (s *BookingService) RecordPayment(ctx context.Context, p Principal, id uint, rawStatus string) (*models.Booking, error) {
	to, ok := models.ParsePaymentStatus(rawStatus)
	if !ok {
		return nil, ErrInvalidPaymentStatus
	}

	b, err := s.ownerTransition(ctx, p, id, false, func(tx *gorm.DB, b *models.Booking, _ InventorySnapshot) error {
		if b.PaymentStatus == to {
			return nil
		}
		switch to {
		case models.PaymentPaid:
			if b.Status == models.BookingRejected || b.Status == models.BookingCancelled || b.PaymentStatus != models.PaymentUnpaid {
				return ErrInvalidTransition
			}
		case models.PaymentRefunded:
			if b.PaymentStatus != models.PaymentPaid {
				return ErrInvalidTransition
			}
		default:
			return ErrInvalidTransition
		}

		now := s.Now()
		if err := tx.Model(&models.Booking{}).Where("id = ?", b.ID).
			Updates(map[string]interface{}{"payment_status": to, "updated_at": now}).Error; err != nil {
			return fmt.Errorf("failed to update payment status: %w", err)
		}
		b.PaymentStatus = to
		b.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info("payment status recorded", zap.Uint("booking_id", id), zap.String("payment_status", string(to)))
	return b, nil
}
