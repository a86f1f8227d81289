package models

import "time"

type User struct {
	ID        string     `gorm:"primaryKey;type:text" json:"id"`
	Name      string     `json:"name"`
	Email     string     `gorm:"uniqueIndex" json:"email"`
	Favorites []Favorite `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}

// Favorite links a user to a listing they marked with the heart button
type Favorite struct {
	UserID    string    `gorm:"primaryKey;type:text" json:"user_id"`
	ListingID string    `gorm:"primaryKey;type:text" json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteIDs returns the set of listing IDs the user has favorited.
func (u *User) FavoriteIDs() map[string]bool {
	ids := make(map[string]bool)
	if u == nil {
		return ids
	}
	for _, f := range u.Favorites {
		ids[f.ListingID] = true
	}
	return ids
}
