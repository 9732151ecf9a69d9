// controllers/booking_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"homestay-backend/middleware"
	"homestay-backend/models"
	"homestay-backend/services"
	"homestay-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateBookingRequest struct {
	HomestayID      uint   `json:"homestayId" binding:"required"`
	CheckIn         string `json:"checkIn" binding:"required"`
	CheckOut        string `json:"checkOut" binding:"required"`
	Rooms           int    `json:"rooms"`
	Guests          int    `json:"guests"`
	PointsToRedeem  int    `json:"pointsToRedeem"`
	PaymentMethod   string `json:"paymentMethod" binding:"omitempty,paymentmethod"`
	SpecialRequests string `json:"specialRequests" binding:"max=1000"`
}

type UpdateBookingStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	RejectionReason string `json:"rejectionReason" binding:"max=500"`
}

type RecordPaymentRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

type listBookingsQuery struct {
	Status string `form:"status" binding:"omitempty,bookingstatus"`
}

var registerValidatorsOnce sync.Once

// registerValidators adds the enum checks used in binding tags to gin's validator.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
			_, ok := models.ParsePaymentMethod(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("bookingstatus", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseBookingStatus(fl.Field().String())
			return ok
		})
	})
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
	Log        *zap.Logger
}

func NewBookingController(svc *services.BookingService, log *zap.Logger) *BookingController {
	registerValidators()
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingController{BookingSvc: svc, Log: log.Named("booking-controller")}
}

// respondServiceError maps engine errors to status codes. Anything
// unclassified is a storage failure and its details stay in the log.
func (ctrl *BookingController) respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsNotFound(err):
		utils.JSONError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case services.IsForbidden(err):
		utils.JSONError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case services.IsValidation(err):
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case services.IsConflict(err):
		utils.JSONError(c, http.StatusConflict, "CONFLICT", err.Error())
	case services.IsInsufficientBalance(err):
		utils.JSONError(c, http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", err.Error())
	default:
		_ = c.Error(err)
		ctrl.Log.Error("booking request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		utils.JSONError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error, please try again")
	}
}

func principal(c *gin.Context) (services.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
	}
	return p, ok
}

func bookingIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid booking id")
		return 0, false
	}
	return uint(id), true
}

func bindError(c *gin.Context, err error) {
	msg := "invalid request payload"
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "paymentmethod":
			msg = "invalid payment method"
		case "bookingstatus":
			msg = "invalid status"
		default:
			msg = fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()[:1])+fe.Field()[1:])
		}
	}
	utils.JSONError(c, http.StatusBadRequest, "VALIDATION_ERROR", msg)
}

// ---------------------------
// Tourist
// ---------------------------

// CreateBooking handles POST /api/bookings.
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	checkIn, err := services.ParseDate(req.CheckIn)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	checkOut, err := services.ParseDate(req.CheckOut)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}

	b, err := ctrl.BookingSvc.Create(c.Request.Context(), p, services.CreateBookingInput{
		HomestayID:      req.HomestayID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Rooms:           req.Rooms,
		Guests:          req.Guests,
		PointsToRedeem:  req.PointsToRedeem,
		PaymentMethod:   req.PaymentMethod,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, mapBooking(b))
}

// MyBookings handles GET /api/bookings/mine.
func (ctrl *BookingController) MyBookings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := ctrl.BookingSvc.ListForTourist(c.Request.Context(), p)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, touristItems(list))
}

// CancelBooking handles PATCH /api/bookings/:id/cancel.
func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	b, err := ctrl.BookingSvc.Cancel(c.Request.Context(), p, id)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Booking cancelled", "booking": mapBooking(b)})
}

// ---------------------------
// Owner
// ---------------------------

// OwnerBookings handles GET /api/bookings/owner-mine.
func (ctrl *BookingController) OwnerBookings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := ctrl.BookingSvc.ListForOwner(c.Request.Context(), p)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ownerItems(list))
}

// UpdateStatus handles PATCH /api/bookings/:id/status.
func (ctrl *BookingController) UpdateStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := ctrl.BookingSvc.UpdateStatus(c.Request.Context(), p, id, req.Status, req.RejectionReason)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"message": "Booking " + strings.ToLower(string(b.Status)),
		"booking": mapBooking(b),
	})
}

// RecordPayment handles PATCH /api/bookings/:id/payment.
func (ctrl *BookingController) RecordPayment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := ctrl.BookingSvc.RecordPayment(c.Request.Context(), p, id, req.PaymentStatus)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, mapBooking(b))
}

// ---------------------------
// Admin / operations
// ---------------------------

// CompleteBooking handles PATCH /api/bookings/:id/complete.
func (ctrl *BookingController) CompleteBooking(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	b, err := ctrl.BookingSvc.Complete(c.Request.Context(), p, id)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, mapBooking(b))
}

// AllBookings handles GET /api/bookings/all?status=.
func (ctrl *BookingController) AllBookings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var q listBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := ctrl.BookingSvc.ListAll(c.Request.Context(), p, q.Status)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, adminItems(list))
}

// ExportBookings handles GET /api/bookings/all/export?status=.
func (ctrl *BookingController) ExportBookings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var q listBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	f, err := ctrl.BookingSvc.ExportAll(c.Request.Context(), p, q.Status)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if _, err := f.WriteTo(c.Writer); err != nil {
		ctrl.Log.Error("failed to stream export", zap.Error(err))
	}
}

// ---------------------------
// Shared
// ---------------------------

// GetBooking handles GET /api/bookings/:id.
func (ctrl *BookingController) GetBooking(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	b, err := ctrl.BookingSvc.Get(c.Request.Context(), p, id)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, mapBooking(b))
}
