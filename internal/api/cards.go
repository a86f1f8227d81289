package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rentnest/server/internal/models"
	"rentnest/server/internal/presenter"
)

type CardActionRequest struct {
	ActionID    string `json:"action_id" form:"action_id"`
	ActionLabel string `json:"action_label" form:"action_label"`
	Disabled    bool   `json:"disabled" form:"disabled"`
	// Local path to return to once the action ran, for HTML forms
	Redirect string `json:"redirect" form:"redirect"`
}

type PreviewRequest struct {
	Listing     models.ListingInput         `json:"listing" binding:"required"`
	Reservation *presenter.ReservationInput `json:"reservation"`
	ActionID    string                      `json:"action_id"`
	ActionLabel string                      `json:"action_label"`
	Disabled    bool                        `json:"disabled"`
}

// ActivateCard handles a click on a card body by redirecting to the listing.
func (h *Handler) ActivateCard(c *gin.Context) {
	var target string
	card := &presenter.Card{
		ListingID: c.Param("id"),
		Navigator: presenter.NavigatorFunc(func(path string) { target = path }),
	}
	card.Activate()

	c.Redirect(http.StatusSeeOther, target)
}

// CardAction handles a click on a card's secondary control, which cancels the
// reservation named by the action ID. It never navigates to the listing.
func (h *Handler) CardAction(c *gin.Context) {
	var req CardActionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ActionLabel == "" {
		req.ActionLabel = cancelLabel
	}

	var (
		target    string
		invoked   bool
		actionErr error
	)
	card := &presenter.Card{
		ListingID:   c.Param("id"),
		ActionID:    req.ActionID,
		ActionLabel: req.ActionLabel,
		Disabled:    req.Disabled,
		OnAction: func(actionID string) {
			invoked = true
			actionErr = h.cancelReservation(c, actionID)
		},
		Navigator: presenter.NavigatorFunc(func(path string) { target = path }),
	}
	card.ActivateAction()

	if target != "" {
		c.Redirect(http.StatusSeeOther, target)
		return
	}
	if actionErr != nil {
		h.respondCancelError(c, actionErr)
		return
	}
	if isLocalPath(req.Redirect) {
		c.Redirect(http.StatusSeeOther, req.Redirect)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"action_id": req.ActionID,
		"invoked":   invoked,
	})
}

// PreviewCard renders a card from raw client records without storing them.
func (h *Handler) PreviewCard(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing := models.Listing{
		ID:            req.Listing.ID,
		Title:         req.Listing.Title,
		ImageSrc:      req.Listing.ImageSrc,
		LocationValue: req.Listing.LocationValue,
		Category:      req.Listing.Category,
		Price:         req.Listing.Price,
		OwnerID:       req.Listing.OwnerID,
	}

	var reservation *models.Reservation
	if req.Reservation != nil {
		var err error
		reservation, err = req.Reservation.Reservation()
		if err != nil {
			h.logger.WithError(err).Warn("Failed to parse reservation dates")
		}
	}

	c.JSON(http.StatusOK, h.presenter.Present(listing, reservation, presenter.Options{
		ActionID:    req.ActionID,
		ActionLabel: req.ActionLabel,
		Disabled:    req.Disabled,
	}))
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, "\\")
}
