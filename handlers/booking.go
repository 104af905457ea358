package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"roamly/config"
	"roamly/models"
	"roamly/services/booking"
	"roamly/utils"
)

// BookingHandler exposes the capacity reservation and cancellation engine
// over HTTP.
type BookingHandler struct {
	Availability *booking.AvailabilityCalculator
	Reservations *booking.ReservationService
	Canceller    *booking.CancellationOrchestrator
	Cache        *redis.Client
	Logger       *zap.Logger
}

func NewBookingHandler(
	availability *booking.AvailabilityCalculator,
	reservations *booking.ReservationService,
	canceller *booking.CancellationOrchestrator,
	cache *redis.Client,
	logger *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		Availability: availability,
		Reservations: reservations,
		Canceller:    canceller,
		Cache:        cache,
		Logger:       logger,
	}
}

// GetAvailabilityHandler returns the availability snapshot for one slot.
// Snapshots are cached briefly for listing UIs; the booking path never reads
// this cache.
func (h *BookingHandler) GetAvailabilityHandler(c *gin.Context) {
	slotID := c.Param("slotID")
	ctx := c.Request.Context()

	key := utils.AvailabilityCacheKey(slotID)
	if cached, err := h.Cache.Get(ctx, key).Result(); err == nil {
		var avail models.Availability
		if err := json.Unmarshal([]byte(cached), &avail); err == nil {
			c.JSON(http.StatusOK, avail)
			return
		}
	}

	avail, err := h.Availability.Snapshot(slotID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	if data, err := json.Marshal(avail); err == nil {
		if err := h.Cache.Set(ctx, key, data, config.AvailabilityCacheTTL()).Err(); err != nil {
			h.Logger.Warn("failed to cache availability", zap.String("slotID", slotID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, avail)
}

// BatchAvailabilityHandler returns availability snapshots for many slots at
// once, for listing/search callers.
func (h *BookingHandler) BatchAvailabilityHandler(c *gin.Context) {
	var input struct {
		SlotIDs []string `json:"slotIds" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	snapshots, err := h.Availability.SnapshotAll(input.SlotIDs)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": snapshots})
}

// ReserveHandler books tickets against a slot.
func (h *BookingHandler) ReserveHandler(c *gin.Context) {
	var input struct {
		SlotID   string `json:"slotId" binding:"required"`
		Tickets  int    `json:"tickets" binding:"required,min=1"`
		HolderID string `json:"holderId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	res, err := h.Reservations.Reserve(c.Request.Context(), input.SlotID, input.Tickets, input.HolderID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	h.invalidateAvailability(input.SlotID)
	c.JSON(http.StatusCreated, res)
}

// CancelHandler cancels a reservation and reports the refund computation.
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	reservationID := c.Param("reservationID")
	var input struct {
		Reason      string `json:"reason"`
		CancelledBy string `json:"cancelledBy"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	by := models.CancelledBy(input.CancelledBy)
	switch by {
	case models.CancelledByHolder, models.CancelledByOperator, models.CancelledByAdmin:
	case "":
		by = models.CancelledByHolder
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "cancelledBy must be holder, operator or admin"})
		return
	}

	result, err := h.Canceller.Cancel(c.Request.Context(), reservationID, input.Reason, by)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	h.invalidateAvailability(result.Reservation.SlotID)
	c.JSON(http.StatusOK, result)
}

// RefundPreviewHandler reports what a cancellation right now (or at the
// optional asOf instant) would refund, without changing anything.
func (h *BookingHandler) RefundPreviewHandler(c *gin.Context) {
	reservationID := c.Param("reservationID")

	var asOf time.Time
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be RFC3339"})
			return
		}
		asOf = parsed
	}

	comp, err := h.Canceller.ComputeRefundPreview(reservationID, asOf)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, comp)
}

func (h *BookingHandler) invalidateAvailability(slotID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Cache.Del(ctx, utils.AvailabilityCacheKey(slotID)).Err(); err != nil {
		h.Logger.Warn("failed to invalidate availability cache",
			zap.String("slotID", slotID), zap.Error(err))
	}
}

// respondBookingError maps engine failures onto HTTP statuses. Capacity
// failures carry the exact remaining count so the caller can render a precise
// message without re-querying.
func respondBookingError(c *gin.Context, err error) {
	var be *booking.BookingError
	if !errors.As(err, &be) {
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch be.Code {
	case booking.CodeNotFound:
		status = http.StatusNotFound
	case booking.CodeSlotExpired:
		status = http.StatusGone
	case booking.CodeInsufficientCapacity:
		c.JSON(http.StatusConflict, gin.H{
			"code":      be.Code,
			"message":   be.Message,
			"remaining": be.Remaining,
		})
		return
	case booking.CodeAlreadyCancelled:
		status = http.StatusConflict
	case booking.CodeContentionTimeout:
		status = http.StatusServiceUnavailable
	case booking.CodeInvalidRequest:
		status = http.StatusBadRequest
	}
	utils.JSONErrorCode(c, status, string(be.Code), be.Message)
}
