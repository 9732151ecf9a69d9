package controllers

import (
	"time"

	"homestay-backend/models"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// BookingResponse is the public projection of a booking.
type BookingResponse struct {
	ID              uint            `json:"id"`
	HomestayID      uint            `json:"homestayId"`
	TouristID       uint            `json:"touristId"`
	CheckIn         string          `json:"checkIn"`
	CheckOut        string          `json:"checkOut"`
	Rooms           int             `json:"rooms"`
	Guests          int             `json:"guests"`
	PricePerNight   decimal.Decimal `json:"pricePerNight"`
	Nights          int             `json:"nights"`
	SubTotal        decimal.Decimal `json:"subTotal"`
	PointsRedeemed  int             `json:"pointsRedeemed"`
	PointsDiscount  decimal.Decimal `json:"pointsDiscount"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	SpecialRequests *string         `json:"specialRequests"`
	RejectionReason *string         `json:"rejectionReason"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func mapBooking(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		HomestayID:      b.HomestayID,
		TouristID:       b.TouristID,
		CheckIn:         b.CheckIn.Format(dateLayout),
		CheckOut:        b.CheckOut.Format(dateLayout),
		Rooms:           b.Rooms,
		Guests:          b.Guests,
		PricePerNight:   b.PricePerNight,
		Nights:          b.Nights,
		SubTotal:        b.SubTotal,
		PointsRedeemed:  b.PointsRedeemed,
		PointsDiscount:  b.PointsDiscount,
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		PaymentMethod:   string(b.PaymentMethod),
		PaymentStatus:   string(b.PaymentStatus),
		SpecialRequests: b.SpecialRequests,
		RejectionReason: b.RejectionReason,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// TouristBookingItem is a row of GET /bookings/mine.
type TouristBookingItem struct {
	Booking          BookingResponse `json:"booking"`
	HomestayName     string          `json:"homestayName"`
	HomestayLocation string          `json:"homestayLocation"`
	HomestayImage    string          `json:"homestayImage"`
}

// OwnerBookingItem is a row of GET /bookings/owner-mine.
type OwnerBookingItem struct {
	Booking      BookingResponse `json:"booking"`
	TouristName  string          `json:"touristName"`
	TouristPhone string          `json:"touristPhone"`
	HomestayName string          `json:"homestayName"`
}

// AdminBookingItem is a row of GET /bookings/all.
type AdminBookingItem struct {
	Booking      BookingResponse `json:"booking"`
	TouristName  string          `json:"touristName"`
	HomestayName string          `json:"homestayName"`
}

func touristItems(list []models.Booking) []TouristBookingItem {
	out := make([]TouristBookingItem, 0, len(list))
	for i := range list {
		b := &list[i]
		out = append(out, TouristBookingItem{
			Booking:          mapBooking(b),
			HomestayName:     b.Homestay.Name,
			HomestayLocation: b.Homestay.Location,
			HomestayImage:    b.Homestay.FirstImage(),
		})
	}
	return out
}

func ownerItems(list []models.Booking) []OwnerBookingItem {
	out := make([]OwnerBookingItem, 0, len(list))
	for i := range list {
		b := &list[i]
		out = append(out, OwnerBookingItem{
			Booking:      mapBooking(b),
			TouristName:  b.Tourist.Name,
			TouristPhone: b.Tourist.PhoneNumber,
			HomestayName: b.Homestay.Name,
		})
	}
	return out
}

func adminItems(list []models.Booking) []AdminBookingItem {
	out := make([]AdminBookingItem, 0, len(list))
	for i := range list {
		b := &list[i]
		out = append(out, AdminBookingItem{
			Booking:      mapBooking(b),
			TouristName:  b.Tourist.Name,
			HomestayName: b.Homestay.Name,
		})
	}
	return out
}
