package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStats handles GET /api/stats: number counts per status plus the
// total, zero-filled.
func (a *API) GetStats(c *gin.Context) {
	stats, err := a.Numbers.Stats()
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetLastUpdate handles GET /api/last-update.
func (a *API) GetLastUpdate(c *gin.Context) {
	lu, err := a.Settings.GetLastUpdate()
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lu)
}

// SetLastUpdate handles POST /api/last-update. The date, when present,
// must match the YYYY-MM-DD shape.
func (a *API) SetLastUpdate(c *gin.Context) {
	var req struct {
		Note string  `json:"note"`
		Date *string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	lu, err := a.Settings.SetLastUpdate(req.Note, req.Date)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lu)
}
