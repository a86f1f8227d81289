package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCountries(c *gin.Context) {
	c.JSON(http.StatusOK, h.countries.GetAll())
}

func (h *Handler) GetCountry(c *gin.Context) {
	country, ok := h.countries.GetByValue(c.Param("value"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Country not found"})
		return
	}
	c.JSON(http.StatusOK, country)
}

// GetCountriesGeoJSON serves country centres for the map view
func (h *Handler) GetCountriesGeoJSON(c *gin.Context) {
	data, err := h.countries.FeatureCollection().MarshalJSON()
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode countries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode countries"})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}
