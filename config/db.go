package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"homestay-backend/models"
	"homestay-backend/utils"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}
	port := u.Port()
	if port == "" {
		port = "3306"
	}
	pass, _ := u.User.Password()

	cfg := mysqldriver.NewConfig()
	cfg.User = u.User.Username()
	cfg.Passwd = pass
	cfg.Net = "tcp"
	cfg.Addr = u.Hostname() + ":" + port
	cfg.DBName = dbName
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	for key, values := range u.Query() {
		if len(values) > 0 && key != "parseTime" && key != "loc" {
			cfg.Params[key] = values[0]
		}
	}
	return cfg.FormatDSN(), nil
}

func resolveMySQLDSN(s *Settings) (string, error) {
	raw := strings.TrimSpace(s.MySQLURL)
	if raw == "" {
		raw = strings.TrimSpace(s.DatabaseURL)
	}
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	cfg := mysqldriver.NewConfig()
	cfg.User = s.DBUser
	cfg.Passwd = s.DBPass
	cfg.Net = "tcp"
	cfg.Addr = s.DBHost + ":" + s.DBPort
	cfg.DBName = s.DBName
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN(), nil
}

func resolvePostgresDSN(s *Settings) string {
	if raw := strings.TrimSpace(s.DatabaseURL); raw != "" {
		return raw
	}
	port := s.DBPort
	if port == "" || port == "3306" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		s.DBHost, port, s.DBUser, s.DBPass, s.DBName)
}

// Dialector picks the gorm driver for DB_DRIVER.
func Dialector(s *Settings) (gorm.Dialector, error) {
	switch s.DBDriver {
	case "mysql":
		dsn, err := resolveMySQLDSN(s)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(resolvePostgresDSN(s)), nil
	case "sqlite":
		return sqlite.Open(sqliteDSN(s.SQLitePath)), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", s.DBDriver)
}

// sqliteDSN makes every transaction take the write lock at BEGIN, so two
// bookings on one file serialize instead of failing with SQLITE_BUSY.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_txlock=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_txlock=immediate&_busy_timeout=5000"
}

// ConnectDatabase opens the database, migrates the schema and seeds demo data when enabled.
func ConnectDatabase(s *Settings, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(s)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if s.IsDevelopment() {
		level = logger.Info
	}
	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if s.SeedEnabled() {
		if err := SeedDatabase(db, log); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	return db, nil
}

// Migrate runs AutoMigrate in parent->child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Homestay{},
		&models.Booking{},
	)
}

func jsonList(items ...string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	raw, _ := json.Marshal(items)
	return datatypes.JSON(raw)
}

// SeedDatabase inserts demo accounts and listings on an empty database.
func SeedDatabase(db *gorm.DB, log *zap.Logger) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		log.Info("seed skipped, users already present")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		users := []models.User{
			{Name: "Admin User", Email: "admin@homestay.local", PasswordHash: string(hash), Role: models.RoleAdmin},
			{Name: "Sita Gurung", Email: "owner@homestay.local", PasswordHash: string(hash), Role: models.RoleOwner, PhoneNumber: "9800000001"},
			{Name: "Test Tourist", Email: "tourist@homestay.local", PasswordHash: string(hash), Role: models.RoleTourist, PhoneNumber: "9800000002", Points: 500},
		}
		if err := tx.Create(&users).Error; err != nil {
			return err
		}
		owner := users[1]

		homestays := []models.Homestay{
			{
				OwnerID:       owner.ID,
				Name:          "Bandipur Heritage Home",
				Location:      "Bandipur, Tanahun",
				Description:   "Newari townhouse on the old trade route.",
				Category:      "Heritage",
				PricePerNight: decimal.NewFromInt(1000),
				NumberOfRooms: 3,
				MaxGuests:     6,
				Amenities:     jsonList("Wifi", "Breakfast"),
				ImageURLs:     jsonList(),
				IsVisible:     true,
			},
			{
				OwnerID:       owner.ID,
				Name:          "Ghandruk Mountain Stay",
				Location:      "Ghandruk, Kaski",
				Description:   "Gurung stone house facing Annapurna South.",
				Category:      "Mountain",
				PricePerNight: decimal.NewFromInt(1500),
				NumberOfRooms: 2,
				MaxGuests:     4,
				Amenities:     jsonList("Hot shower"),
				ImageURLs:     jsonList(),
				IsVisible:     true,
			},
		}
		if err := tx.Create(&homestays).Error; err != nil {
			return err
		}
		log.Info("demo accounts and homestays seeded", zap.Int("users", len(users)), zap.Int("homestays", len(homestays)))
		return nil
	})
}

// LogDemoTokens prints a bearer token per seeded account so the API can be
// exercised locally without the identity service.
func LogDemoTokens(db *gorm.DB, s *Settings, log *zap.Logger) error {
	var users []models.User
	if err := db.Select("id", "email", "role").
		Where("email IN ?", []string{"admin@homestay.local", "owner@homestay.local", "tourist@homestay.local"}).
		Order("id").
		Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		token, err := utils.IssueAccessToken(s.JWTSecret, s.JWTIssuer, u.ID, u.Role, s.JWTTTL)
		if err != nil {
			return err
		}
		log.Info("demo token", zap.String("email", utils.MaskEmail(u.Email)), zap.String("role", u.Role), zap.String("token", token))
	}
	return nil
}
