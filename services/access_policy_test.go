package services

import (
	"testing"

	"homestay-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestAccessPolicy(t *testing.T) {
	tourist := Principal{UserID: 10, Role: models.RoleTourist}
	otherTourist := Principal{UserID: 11, Role: models.RoleTourist}
	owner := Principal{UserID: 20, Role: models.RoleOwner}
	otherOwner := Principal{UserID: 21, Role: models.RoleOwner}
	admin := Principal{UserID: 1, Role: models.RoleAdmin}

	b := &models.Booking{ID: 5, HomestayID: 7, TouristID: tourist.UserID}
	inv := InventorySnapshot{HomestayID: 7, OwnerID: owner.UserID}

	t.Run("create", func(t *testing.T) {
		assert.True(t, CanCreate(models.RoleTourist))
		assert.False(t, CanCreate(models.RoleOwner))
		assert.False(t, CanCreate(models.RoleAdmin))
		assert.False(t, CanCreate(""))
	})

	t.Run("cancel", func(t *testing.T) {
		assert.True(t, CanCancel(tourist, b))
		assert.False(t, CanCancel(otherTourist, b))
		assert.False(t, CanCancel(owner, b))
		assert.False(t, CanCancel(admin, b))
		// same id under another role
		assert.False(t, CanCancel(Principal{UserID: tourist.UserID, Role: models.RoleOwner}, b))
	})

	t.Run("set status", func(t *testing.T) {
		assert.True(t, CanSetStatus(owner, b, inv))
		assert.True(t, CanSetStatus(admin, b, inv))
		assert.False(t, CanSetStatus(otherOwner, b, inv))
		assert.False(t, CanSetStatus(tourist, b, inv))
		// snapshot of a different homestay
		assert.False(t, CanSetStatus(owner, b, InventorySnapshot{HomestayID: 8, OwnerID: owner.UserID}))
		assert.False(t, CanSetStatus(owner, b, InventorySnapshot{}))
	})

	t.Run("record payment", func(t *testing.T) {
		assert.True(t, CanRecordPayment(owner, b, inv))
		assert.True(t, CanRecordPayment(admin, b, inv))
		assert.False(t, CanRecordPayment(otherOwner, b, inv))
		assert.False(t, CanRecordPayment(tourist, b, inv))
	})

	t.Run("complete and view all", func(t *testing.T) {
		assert.True(t, CanComplete(models.RoleAdmin))
		assert.False(t, CanComplete(models.RoleOwner))
		assert.False(t, CanComplete(models.RoleTourist))
		assert.True(t, CanViewAll(models.RoleAdmin))
		assert.False(t, CanViewAll(models.RoleOwner))
	})

	t.Run("view", func(t *testing.T) {
		assert.True(t, CanView(tourist, b, inv))
		assert.True(t, CanView(owner, b, inv))
		assert.True(t, CanView(admin, b, inv))
		assert.False(t, CanView(otherTourist, b, inv))
		assert.False(t, CanView(otherOwner, b, inv))
	})
}
