package models

import "time"

type Reservation struct {
	ID         string    `gorm:"primaryKey;type:text" json:"id"`
	ListingID  string    `gorm:"index;not null" json:"listing_id"`
	Listing    Listing   `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"-"`
	UserID     string    `gorm:"index;not null" json:"user_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}
