package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rentnest/server/internal/models"
)

// Seed fills an empty database with a small demo data set. It does nothing
// when listings already exist.
func (d *Database) Seed(ctx context.Context) error {
	var count int64
	if err := d.db.WithContext(ctx).Model(&models.Listing{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		d.logger.Debug("Database already has listings, skipping seed")
		return nil
	}

	host := &models.User{Name: "Host", Email: "host@rentnest.test"}
	guest := &models.User{Name: "Guest", Email: "guest@rentnest.test"}

	listings := []*models.Listing{
		{Title: "Siargao surf hut", ImageSrc: "/images/siargao.jpg", LocationValue: "PH", Category: "Beach", Price: 2500},
		{Title: "Kyoto machiya", ImageSrc: "/images/kyoto.jpg", LocationValue: "JP", Category: "Countryside", Price: 7800},
		{Title: "Lisbon loft", ImageSrc: "/images/lisbon.jpg", LocationValue: "PT", Category: "Modern", Price: 5400},
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txdb := &Database{db: tx, logger: d.logger}
		for _, u := range []*models.User{host, guest} {
			if err := txdb.CreateUser(ctx, u); err != nil {
				return fmt.Errorf("failed to seed user: %w", err)
			}
		}

		for _, l := range listings {
			l.OwnerID = host.ID
		}
		if err := UpsertListings(tx, listings); err != nil {
			return fmt.Errorf("failed to seed listings: %w", err)
		}

		start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 14)
		reservation := &models.Reservation{
			ListingID:  listings[0].ID,
			UserID:     guest.ID,
			StartDate:  start,
			EndDate:    start.AddDate(0, 0, 4),
			TotalPrice: listings[0].Price * 4,
		}
		if err := txdb.CreateReservation(ctx, reservation); err != nil {
			return fmt.Errorf("failed to seed reservation: %w", err)
		}

		d.logger.Infof("Seeded %d listings", len(listings))
		return nil
	})
}
