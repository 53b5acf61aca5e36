package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chipdesk/chipdesk/src/models"
)

// parseClientID decodes the client_id field from a request body. The SPA
// sends a number, a numeric string (select values), an empty string or
// null; all of the empty forms mean "no client".
func parseClientID(raw json.RawMessage) (*int64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, true
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, true
		}
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &v, true
		}
	}
	return nil, false
}

// CreateNumber handles POST /api/devices/:id/numbers.
func (a *API) CreateNumber(c *gin.Context) {
	deviceID, ok := a.idParam(c)
	if !ok {
		return
	}

	var req struct {
		Phone    string          `json:"phone"`
		ClientID json.RawMessage `json:"client_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	clientID, ok := parseClientID(req.ClientID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client"})
		return
	}

	number, err := a.Numbers.Create(deviceID, req.Phone, clientID)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, number)
}

// UpdateNumber handles PATCH /api/numbers/:id. The client_id field is
// three-state: absent leaves the assignment alone, null (or "") clears
// it, an id sets it.
func (a *API) UpdateNumber(c *gin.Context) {
	id, ok := a.idParam(c)
	if !ok {
		return
	}

	var req struct {
		ClientID json.RawMessage `json:"client_id"`
		Status   *string         `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	update := models.NumberUpdate{Status: req.Status}
	if len(req.ClientID) > 0 {
		clientID, ok := parseClientID(req.ClientID)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client"})
			return
		}
		update.SetClient = true
		update.ClientID = clientID
	}

	number, err := a.Numbers.Update(id, update)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, number)
}

// DeleteNumber handles DELETE /api/numbers/:id.
func (a *API) DeleteNumber(c *gin.Context) {
	id, ok := a.idParam(c)
	if !ok {
		return
	}
	if err := a.Numbers.Delete(id); err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListNumberLogs handles GET /api/numbers/:id/logs?limit=N. The limit
// defaults to 3 and is clamped to 1000.
func (a *API) ListNumberLogs(c *gin.Context) {
	id, ok := a.idParam(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := a.Logs.ListForNumber(id, limit)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
