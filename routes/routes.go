package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"homestay-backend/config"
	"homestay-backend/controllers"
	"homestay-backend/middleware"
	"homestay-backend/models"
)

// SetupRouter wires middleware and booking routes. rdb may be nil, in which
// case X-Idempotency-Key is ignored.
func SetupRouter(
	bc *controllers.BookingController,
	settings *config.Settings,
	rdb middleware.RedisClient,
	log *zap.Logger,
) *gin.Engine {
	r := gin.New()

	origins := settings.CORSOriginList()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader, middleware.IdempotencyKeyHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log.Named("http")))
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.Authenticate(settings.JWTSecret, settings.JWTIssuer))

	bookings := api.Group("/bookings")
	{
		create := []gin.HandlerFunc{middleware.RequireRole(models.RoleTourist)}
		if rdb != nil {
			create = append(create, middleware.Idempotency(rdb, settings.IdempotencyTTL, log.Named("idempotency")))
		}
		create = append(create, bc.CreateBooking)
		bookings.POST("", create...)

		bookings.GET("/mine", middleware.RequireRole(models.RoleTourist), bc.MyBookings)
		bookings.GET("/owner-mine", middleware.RequireRole(models.RoleOwner), bc.OwnerBookings)

		// static paths must stay ahead of /:id
		bookings.GET("/all", middleware.RequireRole(models.RoleAdmin), bc.AllBookings)
		bookings.GET("/all/export", middleware.RequireRole(models.RoleAdmin), bc.ExportBookings)

		bookings.GET("/:id", bc.GetBooking)
		bookings.PATCH("/:id/cancel", middleware.RequireRole(models.RoleTourist), bc.CancelBooking)
		bookings.PATCH("/:id/status", middleware.RequireRole(models.RoleOwner, models.RoleAdmin), bc.UpdateStatus)
		bookings.PATCH("/:id/payment", middleware.RequireRole(models.RoleOwner, models.RoleAdmin), bc.RecordPayment)
		bookings.PATCH("/:id/complete", middleware.RequireRole(models.RoleAdmin), bc.CompleteBooking)
	}

	return r
}
