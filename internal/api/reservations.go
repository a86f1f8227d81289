package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentnest/server/internal/database"
	"rentnest/server/internal/presenter"
)

var errSignedOut = errors.New("not signed in")

const (
	cancelLabel      = "Cancel reservation"
	cancelGuestLabel = "Cancel guest reservation"
)

// GetReservations returns reservation cards, each with a cancel control.
// Guests see their trips (userId), owners the bookings on their listings (ownerId).
func (h *Handler) GetReservations(c *gin.Context) {
	var filter database.ReservationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId, ownerId or listingId is required"})
		return
	}

	cards, err := h.reservationCards(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get reservations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get reservations"})
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *Handler) reservationCards(ctx context.Context, filter database.ReservationFilter) ([]presenter.DisplayModel, error) {
	reservations, err := h.db.GetReservations(ctx, filter)
	if err != nil {
		return nil, err
	}

	label := cancelLabel
	if filter.OwnerID != "" {
		label = cancelGuestLabel
	}

	cards := make([]presenter.DisplayModel, 0, len(reservations))
	for i := range reservations {
		r := &reservations[i]
		cards = append(cards, h.presenter.Present(r.Listing, r, presenter.Options{
			ActionID:    r.ID,
			ActionLabel: label,
		}))
	}
	return cards, nil
}

// CancelReservation deletes a reservation made by, or hosted by, the current user
func (h *Handler) CancelReservation(c *gin.Context) {
	err := h.cancelReservation(c, c.Param("id"))
	if err != nil {
		h.respondCancelError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *Handler) cancelReservation(c *gin.Context, id string) error {
	user := h.currentUser(c)
	if user == nil {
		return errSignedOut
	}
	if err := h.db.CancelReservation(c.Request.Context(), id, user.ID); err != nil {
		return err
	}
	h.logger.WithField("reservation_id", id).Info("Reservation cancelled")
	return nil
}

func (h *Handler) respondCancelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errSignedOut):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to cancel reservations"})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
	default:
		h.logger.WithError(err).Error("Failed to cancel reservation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel reservation"})
	}
}
