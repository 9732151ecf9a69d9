package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"   // tourist booked, waiting for the owner
	BookingConfirmed BookingStatus = "Confirmed" // owner confirmed
	BookingRejected  BookingStatus = "Rejected"  // owner rejected
	BookingCancelled BookingStatus = "Cancelled"
	BookingCompleted BookingStatus = "Completed" // stay is done
)

var bookingStatuses = []BookingStatus{
	BookingPending, BookingConfirmed, BookingRejected, BookingCancelled, BookingCompleted,
}

// ParseBookingStatus matches a status name case-insensitively.
func ParseBookingStatus(raw string) (BookingStatus, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range bookingStatuses {
		if strings.EqualFold(raw, string(s)) {
			return s, true
		}
	}
	return "", false
}

// Terminal reports whether no further transition is allowed out of s.
func (s BookingStatus) Terminal() bool {
	return s == BookingRejected || s == BookingCancelled || s == BookingCompleted
}

type PaymentMethod string

const (
	PayAtArrival PaymentMethod = "PayAtArrival"
	PayKhalti    PaymentMethod = "Khalti"
)

func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	raw = strings.TrimSpace(raw)
	for _, m := range []PaymentMethod{PayAtArrival, PayKhalti} {
		if strings.EqualFold(raw, string(m)) {
			return m, true
		}
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "Unpaid"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentRefunded PaymentStatus = "Refunded"
)

func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range []PaymentStatus{PaymentUnpaid, PaymentPaid, PaymentRefunded} {
		if strings.EqualFold(raw, string(s)) {
			return s, true
		}
	}
	return "", false
}

// Booking is a reservation of rooms at a homestay for [CheckIn, CheckOut).
// Pricing columns are snapshotted at creation and never rewritten.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	HomestayID uint `gorm:"column:homestay_id;not null;index:idx_bookings_homestay_status,priority:1" json:"homestayId"`
	TouristID  uint `gorm:"column:tourist_id;not null;index" json:"touristId"`

	CheckIn  time.Time `gorm:"column:check_in;type:date;not null" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out;type:date;not null" json:"checkOut"`
	Rooms    int       `gorm:"column:rooms;not null" json:"rooms"`
	Guests   int       `gorm:"column:guests;not null" json:"guests"`

	PricePerNight  decimal.Decimal `gorm:"column:price_per_night;type:decimal(12,2);not null" json:"pricePerNight"`
	Nights         int             `gorm:"column:nights;not null" json:"nights"`
	SubTotal       decimal.Decimal `gorm:"column:sub_total;type:decimal(12,2);not null" json:"subTotal"`
	PointsRedeemed int             `gorm:"column:points_redeemed;not null;default:0" json:"pointsRedeemed"`
	PointsDiscount decimal.Decimal `gorm:"column:points_discount;type:decimal(12,2);not null" json:"pointsDiscount"`
	TotalPrice     decimal.Decimal `gorm:"column:total_price;type:decimal(12,2);not null" json:"totalPrice"`

	Status        BookingStatus `gorm:"column:status;size:20;not null;index:idx_bookings_homestay_status,priority:2" json:"status"`
	PaymentMethod PaymentMethod `gorm:"column:payment_method;size:20;not null" json:"paymentMethod"`
	PaymentStatus PaymentStatus `gorm:"column:payment_status;size:20;not null" json:"paymentStatus"`

	RejectionReason *string `gorm:"column:rejection_reason;size:500" json:"rejectionReason,omitempty"`
	SpecialRequests *string `gorm:"column:special_requests;type:text" json:"specialRequests,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Homestay Homestay `gorm:"foreignKey:HomestayID;references:ID" json:"-"`
	Tourist  User     `gorm:"foreignKey:TouristID;references:ID" json:"-"`
}
