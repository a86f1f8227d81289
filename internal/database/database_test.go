package database

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentnest/server/internal/models"
)

func setupTestDatabase(t *testing.T) *Database {
	db, err := NewTestDB()
	require.NoError(t, err)
	require.NoError(t, MigrateSchema(db))

	d := Wrap(db, logrus.New())
	t.Cleanup(func() { d.Close() })
	return d
}

func seedOwnerAndGuest(t *testing.T, d *Database) (*models.User, *models.User) {
	ctx := context.Background()
	owner := &models.User{Name: "Owner", Email: "owner@test"}
	guest := &models.User{Name: "Guest", Email: "guest@test"}
	require.NoError(t, d.CreateUser(ctx, owner))
	require.NoError(t, d.CreateUser(ctx, guest))
	return owner, guest
}

func TestUpsertListings(t *testing.T) {
	d := setupTestDatabase(t)
	ctx := context.Background()

	batch := []*models.Listing{
		{ID: "L1", ImageSrc: "a.jpg", LocationValue: "PH", Category: "Beach", Price: 100},
		{ImageSrc: "b.jpg", LocationValue: "JP", Category: "Countryside", Price: 200},
	}
	require.NoError(t, UpsertListings(d.GetDB(), batch))
	assert.NotEmpty(t, batch[1].ID, "missing IDs are generated")

	// Second upsert updates in place
	require.NoError(t, UpsertListings(d.GetDB(), []*models.Listing{
		{ID: "L1", ImageSrc: "a2.jpg", LocationValue: "PH", Category: "Beach", Price: 150},
	}))

	l, err := d.GetListingByID(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, float64(150), l.Price)
	assert.Equal(t, "a2.jpg", l.ImageSrc)

	all, err := d.GetListings(ctx, models.ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.NoError(t, UpsertListings(d.GetDB(), nil))
}

func TestGetListings_Filters(t *testing.T) {
	d := setupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, UpsertListings(d.GetDB(), []*models.Listing{
		{ID: "L1", ImageSrc: "a.jpg", LocationValue: "PH", Category: "Beach", Price: 100, OwnerID: "U1"},
		{ID: "L2", ImageSrc: "b.jpg", LocationValue: "PH", Category: "Camping", Price: 80, OwnerID: "U2"},
		{ID: "L3", ImageSrc: "c.jpg", LocationValue: "FR", Category: "Beach", Price: 300, OwnerID: "U1"},
	}))

	tests := []struct {
		name     string
		filter   models.ListingFilter
		expected []string
	}{
		{name: "Category", filter: models.ListingFilter{Category: "beach"}, expected: []string{"L1", "L3"}},
		{name: "Location", filter: models.ListingFilter{LocationValue: "ph"}, expected: []string{"L1", "L2"}},
		{name: "Owner", filter: models.ListingFilter{OwnerID: "U2"}, expected: []string{"L2"}},
		{name: "Combined", filter: models.ListingFilter{Category: "Beach", LocationValue: "FR"}, expected: []string{"L3"}},
		{name: "No match", filter: models.ListingFilter{Category: "Arctic"}, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings, err := d.GetListings(ctx, tt.filter)
			require.NoError(t, err)

			var ids []string
			for _, l := range listings {
				ids = append(ids, l.ID)
			}
			assert.ElementsMatch(t, tt.expected, ids)
		})
	}
}

func TestGetListingByID_NotFound(t *testing.T) {
	d := setupTestDatabase(t)

	_, err := d.GetListingByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReservations(t *testing.T) {
	d := setupTestDatabase(t)
	ctx := context.Background()
	owner, guest := seedOwnerAndGuest(t, d)

	require.NoError(t, UpsertListings(d.GetDB(), []*models.Listing{
		{ID: "L1", ImageSrc: "a.jpg", LocationValue: "PH", Category: "Beach", Price: 100, OwnerID: owner.ID},
	}))

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := &models.Reservation{ListingID: "L1", UserID: guest.ID, StartDate: start, EndDate: start.AddDate(0, 0, 4), TotalPrice: 400}
	require.NoError(t, d.CreateReservation(ctx, r))
	assert.NotEmpty(t, r.ID)

	byGuest, err := d.GetReservations(ctx, ReservationFilter{UserID: guest.ID})
	require.NoError(t, err)
	require.Len(t, byGuest, 1)
	assert.Equal(t, "L1", byGuest[0].Listing.ID, "listing is preloaded")
	assert.True(t, start.Equal(byGuest[0].StartDate))

	byOwner, err := d.GetReservations(ctx, ReservationFilter{OwnerID: owner.ID})
	require.NoError(t, err)
	assert.Len(t, byOwner, 1)

	byStranger, err := d.GetReservations(ctx, ReservationFilter{OwnerID: guest.ID})
	require.NoError(t, err)
	assert.Empty(t, byStranger)
}

func TestCreateReservation_InvalidRange(t *testing.T) {
	d := setupTestDatabase(t)
	start := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	err := d.CreateReservation(context.Background(), &models.Reservation{
		ListingID: "L1", UserID: "U1", StartDate: start, EndDate: start.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, ErrInvalidReservation)
}

func TestCancelReservation(t *testing.T) {
	d := setupTestDatabase(t)
	ctx := context.Background()
	owner, guest := seedOwnerAndGuest(t, d)

	require.NoError(t, UpsertListings(d.GetDB(), []*models.Listing{
		{ID: "L1", ImageSrc: "a.jpg", LocationValue: "PH", Category: "Beach", Price: 100, OwnerID: owner.ID},
	}))

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	newReservation := func() string {
		r := &models.Reservation{ListingID: "L1", UserID: guest.ID, StartDate: start, EndDate: start.AddDate(0, 0, 2), TotalPrice: 200}
		require.NoError(t, d.CreateReservation(ctx, r))
		return r.ID
	}

	// Strangers cannot cancel
	first := newReservation()
	assert.ErrorIs(t, d.CancelReservation(ctx, first, "someone-else"), ErrNotFound)

	// Guest can cancel their own
	assert.NoError(t, d.CancelReservation(ctx, first, guest.ID))
	assert.ErrorIs(t, d.CancelReservation(ctx, first, guest.ID), ErrNotFound)

	// Owner can cancel reservations on their listing
	second := newReservation()
	assert.NoError(t, d.CancelReservation(ctx, second, owner.ID))

	remaining, err := d.GetReservations(ctx, ReservationFilter{ListingID: "L1"})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestFavorites(t *testing.T) {
	d := setupTestDatabase(t)
	ctx := context.Background()
	owner, guest := seedOwnerAndGuest(t, d)

	require.NoError(t, UpsertListings(d.GetDB(), []*models.Listing{
		{ID: "L1", ImageSrc: "a.jpg", LocationValue: "PH", Category: "Beach", Price: 100, OwnerID: owner.ID},
	}))

	require.NoError(t, d.AddFavorite(ctx, guest.ID, "L1"))
	require.NoError(t, d.AddFavorite(ctx, guest.ID, "L1"), "adding twice is a no-op")
	assert.ErrorIs(t, d.AddFavorite(ctx, guest.ID, "missing"), ErrNotFound)

	user, err := d.GetUser(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"L1": true}, user.FavoriteIDs())

	favorites, err := d.GetFavoriteListings(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "L1", favorites[0].ID)

	none, err := d.GetFavoriteListings(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, d.RemoveFavorite(ctx, guest.ID, "L1"))
	user, err = d.GetUser(ctx, guest.ID)
	require.NoError(t, err)
	assert.Empty(t, user.FavoriteIDs())

	_, err = d.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeed(t *testing.T) {
	d := setupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, d.Seed(ctx))
	listings, err := d.GetListings(ctx, models.ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, listings, 3)

	reservations, err := d.GetReservations(ctx, ReservationFilter{})
	require.NoError(t, err)
	assert.Len(t, reservations, 1)

	// Seeding again keeps the existing data
	require.NoError(t, d.Seed(ctx))
	listings, err = d.GetListings(ctx, models.ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, listings, 3)
}
