package api

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentnest/server/internal/countries"
	"rentnest/server/internal/database"
	"rentnest/server/internal/menu"
	"rentnest/server/internal/models"
	"rentnest/server/internal/presenter"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.tmpl")
}

// cardView is a card as rendered inside a page. Redirect is where the card's
// forms return to.
type cardView struct {
	presenter.DisplayModel
	Redirect string
}

func cardViews(cards []presenter.DisplayModel, redirect string) []cardView {
	views := make([]cardView, len(cards))
	for i, card := range cards {
		views[i] = cardView{DisplayModel: card, Redirect: redirect}
	}
	return views
}

func (h *Handler) pageMenu(user *models.User, path string) *menu.Menu {
	m := menu.UserMenu(user, nil, menu.Actions{})
	m.Select(path)
	return m
}

func (h *Handler) listingCards(listings []models.Listing, user *models.User) []presenter.DisplayModel {
	favorites := user.FavoriteIDs()
	cards := make([]presenter.DisplayModel, 0, len(listings))
	for _, l := range listings {
		cards = append(cards, h.presenter.Present(l, nil, presenter.Options{Favorited: favorites[l.ID]}))
	}
	return cards
}

// ListingsPage renders the listing grid
func (h *Handler) ListingsPage(c *gin.Context) {
	var filter models.ListingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	listings, err := h.listings(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listings")
		c.String(http.StatusInternalServerError, "Failed to get listings")
		return
	}

	user := h.currentUser(c)
	c.HTML(http.StatusOK, "listings.tmpl", gin.H{
		"Title": "Explore",
		"Menu":  h.pageMenu(user, c.Request.URL.Path),
		"Cards": cardViews(h.listingCards(listings, user), c.Request.URL.Path),
		"Empty": "No exact matches",
	})
}

// ListingPage renders a listing's detail view, the target of card activation
func (h *Handler) ListingPage(c *gin.Context) {
	listing, err := h.db.GetListingByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.String(http.StatusNotFound, "Listing not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listing")
		c.String(http.StatusInternalServerError, "Failed to get listing")
		return
	}

	var country *countries.Country
	if h.countries != nil {
		country, _ = h.countries.GetByValue(listing.LocationValue)
	}

	user := h.currentUser(c)
	favorites := user.FavoriteIDs()
	card := h.presenter.Present(*listing, nil, presenter.Options{Favorited: favorites[listing.ID]})
	c.HTML(http.StatusOK, "listing.tmpl", gin.H{
		"Title":   listing.Title,
		"Menu":    h.pageMenu(user, c.Request.URL.Path),
		"Listing": listing,
		"Country": country,
		"Card":    cardView{DisplayModel: card, Redirect: c.Request.URL.Path},
	})
}

// TripsPage renders the current user's reservations with cancel controls
func (h *Handler) TripsPage(c *gin.Context) {
	h.reservationsPage(c, "My trips", "You haven't reserved any trips", func(u *models.User) database.ReservationFilter {
		return database.ReservationFilter{UserID: u.ID}
	})
}

// ReservationsPage renders the bookings on the current user's listings
func (h *Handler) ReservationsPage(c *gin.Context) {
	h.reservationsPage(c, "Reservations", "No reservations on your properties", func(u *models.User) database.ReservationFilter {
		return database.ReservationFilter{OwnerID: u.ID}
	})
}

// FavoritesPage renders the listings the current user hearted
func (h *Handler) FavoritesPage(c *gin.Context) {
	h.userListingsPage(c, "Favorites", "Looks like you have no favorite listings", func(ctx context.Context, u *models.User) ([]models.Listing, error) {
		return h.db.GetFavoriteListings(ctx, u.ID)
	})
}

// PropertiesPage renders the listings the current user owns
func (h *Handler) PropertiesPage(c *gin.Context) {
	h.userListingsPage(c, "Properties", "Looks like you have no properties", func(ctx context.Context, u *models.User) ([]models.Listing, error) {
		return h.db.GetListings(ctx, models.ListingFilter{OwnerID: u.ID})
	})
}

// pageUser returns the signed-in user, or sends a signed-out visitor back to
// the listing grid.
func (h *Handler) pageUser(c *gin.Context) *models.User {
	user := h.currentUser(c)
	if user == nil {
		c.Redirect(http.StatusSeeOther, "/")
	}
	return user
}

func (h *Handler) userListingsPage(c *gin.Context, title, empty string, fetch func(context.Context, *models.User) ([]models.Listing, error)) {
	user := h.pageUser(c)
	if user == nil {
		return
	}

	listings, err := fetch(c.Request.Context(), user)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listings")
		c.String(http.StatusInternalServerError, "Failed to get listings")
		return
	}

	c.HTML(http.StatusOK, "listings.tmpl", gin.H{
		"Title": title,
		"Menu":  h.pageMenu(user, c.Request.URL.Path),
		"Cards": cardViews(h.listingCards(listings, user), c.Request.URL.Path),
		"Empty": empty,
	})
}

func (h *Handler) reservationsPage(c *gin.Context, title, empty string, filterFor func(*models.User) database.ReservationFilter) {
	user := h.pageUser(c)
	if user == nil {
		return
	}

	cards, err := h.reservationCards(c.Request.Context(), filterFor(user))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get reservations")
		c.String(http.StatusInternalServerError, "Failed to get reservations")
		return
	}

	c.HTML(http.StatusOK, "listings.tmpl", gin.H{
		"Title": title,
		"Menu":  h.pageMenu(user, c.Request.URL.Path),
		"Cards": cardViews(cards, c.Request.URL.Path),
		"Empty": empty,
	})
}

type favoriteForm struct {
	Redirect string `form:"redirect"`
}

// ToggleFavorite is the heart button of a rendered card. It adds or removes
// the favorite and returns to the page the form came from.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	user := h.pageUser(c)
	if user == nil {
		return
	}

	var form favoriteForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	listingID := c.Param("listingId")
	var err error
	if user.FavoriteIDs()[listingID] {
		err = h.db.RemoveFavorite(c.Request.Context(), user.ID, listingID)
	} else {
		err = h.db.AddFavorite(c.Request.Context(), user.ID, listingID)
	}
	if errors.Is(err, database.ErrNotFound) {
		c.String(http.StatusNotFound, "Listing not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to toggle favorite")
		c.String(http.StatusInternalServerError, "Failed to toggle favorite")
		return
	}

	target := presenter.ListingPath(listingID)
	if isLocalPath(form.Redirect) {
		target = form.Redirect
	}
	c.Redirect(http.StatusSeeOther, target)
}
