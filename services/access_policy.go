package services

import "homestay-backend/models"

// Principal is the authenticated caller, resolved by the identity middleware
// and passed explicitly into every check.
type Principal struct {
	UserID uint
	Role   string
}

func (p Principal) IsAdmin() bool   { return p.Role == models.RoleAdmin }
func (p Principal) IsOwner() bool   { return p.Role == models.RoleOwner }
func (p Principal) IsTourist() bool { return p.Role == models.RoleTourist }

func CanCreate(role string) bool {
	return role == models.RoleTourist
}

// CanCancel: only the tourist who made the booking.
func CanCancel(p Principal, b *models.Booking) bool {
	return p.IsTourist() && b.TouristID == p.UserID
}

// CanSetStatus: the owner of the booked homestay, or an admin.
func CanSetStatus(p Principal, b *models.Booking, inv InventorySnapshot) bool {
	if p.IsAdmin() {
		return true
	}
	return p.IsOwner() && inv.HomestayID == b.HomestayID && inv.OwnerID == p.UserID
}

// CanRecordPayment follows the same rule as status changes.
func CanRecordPayment(p Principal, b *models.Booking, inv InventorySnapshot) bool {
	return CanSetStatus(p, b, inv)
}

// CanComplete is reserved for the operational process, which runs with an admin principal.
func CanComplete(role string) bool {
	return role == models.RoleAdmin
}

func CanViewAll(role string) bool {
	return role == models.RoleAdmin
}

// CanView: the booking tourist, the homestay owner, or an admin.
func CanView(p Principal, b *models.Booking, inv InventorySnapshot) bool {
	if p.IsAdmin() {
		return true
	}
	if p.IsTourist() && b.TouristID == p.UserID {
		return true
	}
	return p.IsOwner() && inv.OwnerID == p.UserID
}
