package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rentnest/server/internal/models"
)

// UpsertListings inserts the batch, updating listings whose ID already exists.
// Listings without an ID get a fresh one.
func UpsertListings(tx *gorm.DB, listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	for _, l := range listings {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "image_src", "location_value",
			"category", "price", "owner_id", "updated_at",
		}),
	}).Create(&listings).Error
}

func (d *Database) GetListings(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	query := d.db.WithContext(ctx).Model(&models.Listing{})
	if filter.Category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", filter.Category)
	}
	if filter.LocationValue != "" {
		query = query.Where("UPPER(location_value) = UPPER(?)", filter.LocationValue)
	}
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}

	var listings []models.Listing
	if err := query.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	return listings, nil
}

func (d *Database) GetListingByID(ctx context.Context, id string) (*models.Listing, error) {
	var listing models.Listing
	if err := d.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &listing, nil
}

// GetFavoriteListings returns the listings a user has favorited, newest first.
func (d *Database) GetFavoriteListings(ctx context.Context, userID string) ([]models.Listing, error) {
	favorited := d.db.Model(&models.Favorite{}).Select("listing_id").Where("user_id = ?", userID)

	var listings []models.Listing
	err := d.db.WithContext(ctx).
		Where("id IN (?)", favorited).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite listings: %w", err)
	}
	return listings, nil
}
