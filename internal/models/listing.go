package models

import "time"

type Listing struct {
	ID            string    `gorm:"primaryKey;type:text" json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ImageSrc      string    `gorm:"not null" json:"image_src"`
	LocationValue string    `gorm:"index;not null" json:"location_value"`
	Category      string    `gorm:"index;not null" json:"category"`
	Price         float64   `gorm:"not null" json:"price"`
	OwnerID       string    `gorm:"index" json:"owner_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListingFilter narrows a listing query. Empty fields match everything;
// LocationValue is a two-letter country code.
type ListingFilter struct {
	Category      string `form:"category"`
	LocationValue string `form:"locationValue" binding:"omitempty,alpha,len=2"`
	OwnerID       string `form:"userId"`
}

// ListingInput is the import payload for a single listing
type ListingInput struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	ImageSrc      string  `json:"image_src" binding:"required"`
	LocationValue string  `json:"location_value" binding:"required"`
	Category      string  `json:"category" binding:"required"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	OwnerID       string  `json:"owner_id"`
}
