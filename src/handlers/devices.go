package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chipdesk/chipdesk/src/models"
)

// ListDevices handles GET /api/devices.
// Query params: q (free text), status (per-number), client_id, order
// (device|number). An unknown status value is ignored rather than
// rejected, matching how the UI builds its filter bar.
func (a *API) ListDevices(c *gin.Context) {
	filter := models.DeviceFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
		Order:  c.DefaultQuery("order", "device"),
	}

	if raw := strings.TrimSpace(c.Query("client_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return
		}
		filter.ClientID = id
	}

	devices, err := a.Devices.List(filter)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

// CreateDevice handles POST /api/devices.
func (a *API) CreateDevice(c *gin.Context) {
	var req struct {
		Name       string `json:"name"`
		Brand      string `json:"brand"`
		IMEI       string `json:"imei"`
		IsDisabled int    `json:"is_disabled"`
		Note       string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	device, err := a.Devices.Create(models.DeviceInput{
		Name:       req.Name,
		Brand:      req.Brand,
		IMEI:       req.IMEI,
		IsDisabled: req.IsDisabled,
		Note:       req.Note,
	})
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, device)
}

// UpdateDevice handles PATCH /api/devices/:id. Only supplied fields
// change; the response includes the device's numbers so screens can
// refresh in one round trip.
func (a *API) UpdateDevice(c *gin.Context) {
	id, ok := a.idParam(c)
	if !ok {
		return
	}

	var req struct {
		Name       *string `json:"name"`
		Brand      *string `json:"brand"`
		IMEI       *string `json:"imei"`
		Status     *string `json:"status"`
		IsDisabled *int    `json:"is_disabled"`
		Note       *string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	device, err := a.Devices.Update(id, models.DeviceUpdate{
		Name:       req.Name,
		Brand:      req.Brand,
		IMEI:       req.IMEI,
		Status:     req.Status,
		IsDisabled: req.IsDisabled,
		Note:       req.Note,
	})
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

// DeleteDevice handles DELETE /api/devices/:id.
func (a *API) DeleteDevice(c *gin.Context) {
	id, ok := a.idParam(c)
	if !ok {
		return
	}
	if err := a.Devices.Delete(id); err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
