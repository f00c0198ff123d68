package handlers

import (
	"net/http"

	"homely/services/catalog"
	"homely/utils"

	"github.com/gin-gonic/gin"
)

var catalogService catalog.CatalogService

// SetCatalogService injects the catalog read source.
func SetCatalogService(svc catalog.CatalogService) {
	catalogService = svc
}

// ListOfferings returns the active catalog entries for the service step.
func ListOfferings(c *gin.Context) {
	offerings, err := catalogService.ListOfferings(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list services", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": offerings})
}

// GetOffering returns one catalog entry.
func GetOffering(c *gin.Context) {
	offering, err := catalogService.GetOffering(c.Request.Context(), c.Param("serviceID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}
	c.JSON(http.StatusOK, offering)
}
