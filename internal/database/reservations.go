package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"rentnest/server/internal/models"
)

var ErrInvalidReservation = errors.New("reservation must end after it starts")

// ReservationFilter selects reservations made by a guest, on a listing, or on
// any listing of an owner. Bound from a query, at least one field is required.
type ReservationFilter struct {
	UserID    string `form:"userId" binding:"required_without_all=ListingID OwnerID"`
	ListingID string `form:"listingId"`
	OwnerID   string `form:"ownerId"`
}

func (d *Database) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if !r.EndDate.After(r.StartDate) {
		return ErrInvalidReservation
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error
}

// GetReservations returns the matching reservations with their listing loaded,
// most recent first.
func (d *Database) GetReservations(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	query := d.db.WithContext(ctx).Preload("Listing")
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ListingID != "" {
		query = query.Where("listing_id = ?", filter.ListingID)
	}
	if filter.OwnerID != "" {
		owned := d.db.Model(&models.Listing{}).Select("id").Where("owner_id = ?", filter.OwnerID)
		query = query.Where("listing_id IN (?)", owned)
	}

	var reservations []models.Reservation
	if err := query.Order("created_at DESC").Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	return reservations, nil
}

// CancelReservation deletes a reservation. Only the guest who made it or the
// owner of the listing may cancel.
func (d *Database) CancelReservation(ctx context.Context, id, userID string) error {
	owned := d.db.Model(&models.Listing{}).Select("id").Where("owner_id = ?", userID)
	res := d.db.WithContext(ctx).
		Where("id = ?", id).
		Where("user_id = ? OR listing_id IN (?)", userID, owned).
		Delete(&models.Reservation{})
	if res.Error != nil {
		return fmt.Errorf("failed to cancel reservation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
