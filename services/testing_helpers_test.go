package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"homestay-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Homestay{}, &models.Booking{}))
	return db
}

// newFileTestDB opens a sqlite file with several connections so concurrent
// transactions really race for the write lock.
func newFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "bookings.db") + "?_txlock=immediate&_busy_timeout=5000"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(4)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Homestay{}, &models.Booking{}))
	return db
}

type fixture struct {
	db  *gorm.DB
	svc *BookingService

	admin        models.User
	owner        models.User
	otherOwner   models.User
	tourist      models.User
	otherTourist models.User

	// 3 rooms at 1000/night, owned by owner
	homestay models.Homestay
	// 2 rooms at 1500/night, owned by otherOwner
	otherHomestay models.Homestay
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, newTestDB(t))
}

func newFixtureOn(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	f := &fixture{db: db, svc: NewBookingService(db, zap.NewNop())}

	f.admin = createUser(t, db, "Admin", models.RoleAdmin, 0)
	f.owner = createUser(t, db, "Sita Gurung", models.RoleOwner, 0)
	f.otherOwner = createUser(t, db, "Ram Thapa", models.RoleOwner, 0)
	f.tourist = createUser(t, db, "Asha Rai", models.RoleTourist, 500)
	f.otherTourist = createUser(t, db, "Binod KC", models.RoleTourist, 100)

	f.homestay = createHomestay(t, db, f.owner.ID, "Bandipur Heritage Home", 3, 1000)
	f.otherHomestay = createHomestay(t, db, f.otherOwner.ID, "Ghandruk Mountain Stay", 2, 1500)
	return f
}

func createUser(t *testing.T, db *gorm.DB, name, role string, points int) models.User {
	t.Helper()
	u := models.User{
		Name:        name,
		Email:       strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Role:        role,
		PhoneNumber: "98000" + fmt.Sprint(len(name)),
		Points:      points,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func createHomestay(t *testing.T, db *gorm.DB, ownerID uint, name string, rooms int, price int64) models.Homestay {
	t.Helper()
	h := models.Homestay{
		OwnerID:       ownerID,
		Name:          name,
		Location:      "Nepal",
		PricePerNight: decimal.NewFromInt(price),
		NumberOfRooms: rooms,
		MaxGuests:     rooms * 2,
		ImageURLs:     []byte(`["https://img.example.com/` + strings.ReplaceAll(name, " ", "-") + `.jpg"]`),
		IsVisible:     true,
	}
	require.NoError(t, db.Create(&h).Error)
	return h
}

// insertBooking writes a booking row directly, bypassing the engine.
func insertBooking(t *testing.T, db *gorm.DB, homestayID, touristID uint, checkIn, checkOut string, status models.BookingStatus) models.Booking {
	t.Helper()
	ci := mustDate(t, checkIn)
	co := mustDate(t, checkOut)
	b := models.Booking{
		HomestayID:     homestayID,
		TouristID:      touristID,
		CheckIn:        ci,
		CheckOut:       co,
		Rooms:          1,
		Guests:         1,
		PricePerNight:  decimal.NewFromInt(1000),
		Nights:         NightsBetween(ci, co),
		SubTotal:       decimal.NewFromInt(1000),
		PointsDiscount: decimal.Zero,
		TotalPrice:     decimal.NewFromInt(1000),
		Status:         status,
		PaymentMethod:  models.PayAtArrival,
		PaymentStatus:  models.PaymentUnpaid,
	}
	require.NoError(t, db.Omit("Homestay", "Tourist").Create(&b).Error)
	return b
}

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := ParseDate(raw)
	require.NoError(t, err)
	return d
}

func principalOf(u models.User) Principal {
	return Principal{UserID: u.ID, Role: u.Role}
}

func (f *fixture) reload(t *testing.T, id uint) models.Booking {
	t.Helper()
	var b models.Booking
	require.NoError(t, f.db.First(&b, id).Error)
	return b
}

func (f *fixture) points(t *testing.T, userID uint) int {
	t.Helper()
	var u models.User
	require.NoError(t, f.db.First(&u, userID).Error)
	return u.Points
}

func (f *fixture) create(t *testing.T, p Principal, in CreateBookingInput) (*models.Booking, error) {
	t.Helper()
	return f.svc.Create(context.Background(), p, in)
}

func stayInput(t *testing.T, homestayID uint, checkIn, checkOut string, rooms int) CreateBookingInput {
	t.Helper()
	return CreateBookingInput{
		HomestayID: homestayID,
		CheckIn:    mustDate(t, checkIn),
		CheckOut:   mustDate(t, checkOut),
		Rooms:      rooms,
		Guests:     rooms,
	}
}
