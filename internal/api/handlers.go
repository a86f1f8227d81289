package api

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rentnest/server/internal/cache"
	"rentnest/server/internal/countries"
	"rentnest/server/internal/database"
	"rentnest/server/internal/models"
	"rentnest/server/internal/presenter"
	"rentnest/server/internal/queue"
)

// The signed-in user ID arrives in a header or cookie. Authentication happens upstream.
const (
	UserHeader = "X-User-ID"
	UserCookie = "user_id"
)

const listingsCachePrefix = "listings"

type Handler struct {
	db           *database.Database
	logger       *logrus.Logger
	countries    *countries.Registry
	presenter    *presenter.Presenter
	cache        cache.Cache
	listingQueue *queue.ListingQueue
	maxBatchSize int
}

// Services bundles the collaborators a Handler serves from
type Services struct {
	DB           *database.Database
	Countries    *countries.Registry
	Presenter    *presenter.Presenter
	Cache        cache.Cache
	ListingQueue *queue.ListingQueue
	MaxBatchSize int
}

func NewHandler(s Services, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if s.Cache == nil {
		s.Cache = cache.NoopCache{}
	}
	if s.Presenter == nil {
		var lookup presenter.LocationLookup
		if s.Countries != nil {
			lookup = s.Countries
		}
		s.Presenter = presenter.New(lookup, nil, "", logger)
	}
	if s.MaxBatchSize <= 0 {
		s.MaxBatchSize = 100
	}

	return &Handler{
		db:           s.DB,
		logger:       logger,
		countries:    s.Countries,
		presenter:    s.Presenter,
		cache:        s.Cache,
		listingQueue: s.ListingQueue,
		maxBatchSize: s.MaxBatchSize,
	}
}

// currentUser resolves the user named by UserHeader, or the UserCookie for
// page requests. Unknown users are treated as signed out.
func (h *Handler) currentUser(c *gin.Context) *models.User {
	id := c.GetHeader(UserHeader)
	if id == "" {
		id, _ = c.Cookie(UserCookie)
	}
	if id == "" {
		return nil
	}
	user, err := h.db.GetUser(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			h.logger.WithError(err).Error("Failed to load current user")
		}
		return nil
	}
	return user
}

// InvalidateListings drops cached listing queries
func (h *Handler) InvalidateListings(ctx context.Context) {
	if err := h.cache.InvalidatePrefix(ctx, listingsCachePrefix); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate listing cache")
	}
}

func (h *Handler) listings(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	key := cache.QueryKey(listingsCachePrefix, map[string]string{
		"category":      filter.Category,
		"locationValue": filter.LocationValue,
		"userId":        filter.OwnerID,
	})

	var listings []models.Listing
	found, err := h.cache.Get(ctx, key, &listings)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to read listing cache")
	} else if found {
		return listings, nil
	}

	listings, err = h.db.GetListings(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := h.cache.Set(ctx, key, listings); err != nil {
		h.logger.WithError(err).Warn("Failed to write listing cache")
	}
	return listings, nil
}

// GetListings returns the card models of every listing matching the query
func (h *Handler) GetListings(c *gin.Context) {
	var filter models.ListingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listings, err := h.listings(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listings"})
		return
	}

	favorites := h.currentUser(c).FavoriteIDs()
	cards := make([]presenter.DisplayModel, 0, len(listings))
	for _, l := range listings {
		cards = append(cards, h.presenter.Present(l, nil, presenter.Options{Favorited: favorites[l.ID]}))
	}

	c.JSON(http.StatusOK, cards)
}

func (h *Handler) GetListing(c *gin.Context) {
	listing, err := h.db.GetListingByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing"})
		return
	}

	var country *countries.Country
	if h.countries != nil {
		country, _ = h.countries.GetByValue(listing.LocationValue)
	}

	favorites := h.currentUser(c).FavoriteIDs()
	c.JSON(http.StatusOK, gin.H{
		"listing": listing,
		"country": country,
		"card":    h.presenter.Present(*listing, nil, presenter.Options{Favorited: favorites[listing.ID]}),
	})
}

type ImportRequest struct {
	Listings []models.ListingInput `json:"listings" binding:"required,min=1,dive"`
}

// ImportListings validates a batch and queues it for the batch processor
func (h *Handler) ImportListings(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid import request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Listings) > h.maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Batch too large"})
		return
	}

	batch := make([]*models.Listing, len(req.Listings))
	for i, in := range req.Listings {
		batch[i] = &models.Listing{
			ID:            in.ID,
			Title:         in.Title,
			Description:   in.Description,
			ImageSrc:      in.ImageSrc,
			LocationValue: in.LocationValue,
			Category:      in.Category,
			Price:         in.Price,
			OwnerID:       in.OwnerID,
		}
	}

	if h.listingQueue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Import queue unavailable"})
		return
	}
	if err := h.listingQueue.Push(batch); err != nil {
		h.logger.WithError(err).Warn("Failed to queue listing batch")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "queued",
		"count":  len(batch),
	})
}

func (h *Handler) AddFavorite(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to save favorites"})
		return
	}

	err := h.db.AddFavorite(c.Request.Context(), user.ID, c.Param("listingId"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to add favorite")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to save favorites"})
		return
	}

	if err := h.db.RemoveFavorite(c.Request.Context(), user.ID, c.Param("listingId")); err != nil {
		h.logger.WithError(err).Error("Failed to remove favorite")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}
	c.Status(http.StatusNoContent)
}
