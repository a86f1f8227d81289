package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the engine with middleware, templates and all routes
func NewRouter(h *Handler, allowedOrigins []string) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(h.logger))

	if len(allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", UserHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	SetupRoutes(router, h)
	return router, nil
}

func SetupRoutes(router *gin.Engine, h *Handler) {
	router.GET("/", h.ListingsPage)
	router.GET("/listings/:id", h.ListingPage)
	router.GET("/trips", h.TripsPage)
	router.GET("/reservations", h.ReservationsPage)
	router.GET("/favorites", h.FavoritesPage)
	router.GET("/properties", h.PropertiesPage)
	router.POST("/favorites/:listingId", h.ToggleFavorite)

	api := router.Group("/api")
	{
		api.GET("/listings", h.GetListings)
		api.GET("/listings/:id", h.GetListing)
		api.POST("/listings/import", h.ImportListings)

		api.GET("/reservations", h.GetReservations)
		api.DELETE("/reservations/:id", h.CancelReservation)

		api.POST("/preview/card", h.PreviewCard)
		api.POST("/cards/:id/activate", h.ActivateCard)
		api.POST("/cards/:id/action", h.CardAction)

		api.POST("/favorites/:listingId", h.AddFavorite)
		api.DELETE("/favorites/:listingId", h.RemoveFavorite)

		api.GET("/menu", h.GetMenu)

		api.GET("/countries", h.GetCountries)
		api.GET("/countries/:value", h.GetCountry)
		api.GET("/geojson/countries", h.GetCountriesGeoJSON)
	}
}

// RequestLogger logs every request as a structured logrus entry
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry.Error(c.Errors.String())
			return
		}
		entry.Debug("Handled request")
	}
}
