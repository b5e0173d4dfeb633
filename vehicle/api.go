package vehicle

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the vehicle data API. Routes mirror the data source the
// tool server expects:
//
//	GET   /vehicles              full inventory
//	GET   /vehicles/search       filtered inventory
//	GET   /vehicles/:id          one vehicle, 404 if unknown
//	PATCH /vehicles/:id?status=  status update, 404 if unknown
func NewRouter(store *Store) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/vehicles", func(c *gin.Context) {
		c.JSON(http.StatusOK, store.List())
	})

	router.GET("/vehicles/search", func(c *gin.Context) {
		results := store.Search(Filter{
			Make:        c.Query("make"),
			Model:       c.Query("model"),
			Status:      c.Query("status"),
			Destination: c.Query("destination"),
		})
		if results == nil {
			results = []Vehicle{}
		}
		c.JSON(http.StatusOK, results)
	})

	router.GET("/vehicles/:id", func(c *gin.Context) {
		v, ok := store.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Vehicle not found"})
			return
		}
		c.JSON(http.StatusOK, v)
	})

	router.PATCH("/vehicles/:id", func(c *gin.Context) {
		status := c.Query("status")
		if status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "status query parameter is required"})
			return
		}
		v, ok := store.UpdateStatus(c.Param("id"), status)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Vehicle not found"})
			return
		}
		c.JSON(http.StatusOK, v)
	})

	return router
}
