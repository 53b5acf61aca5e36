package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chipdesk/chipdesk/src/models"
)

// ListClients handles GET /api/clients.
func (a *API) ListClients(c *gin.Context) {
	clients, err := a.Clients.List()
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// CreateClient handles POST /api/clients.
func (a *API) CreateClient(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	client, err := a.Clients.Create(req.Name, req.Color)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// UpdateClient handles PATCH /api/clients/:id.
func (a *API) UpdateClient(c *gin.Context) {
	id, ok := a.idParam(c)
	if !ok {
		return
	}

	var req struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	client, err := a.Clients.Update(id, models.ClientUpdate{Name: req.Name, Color: req.Color})
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /api/clients/:id. Numbers assigned to the
// client are unassigned, not deleted.
func (a *API) DeleteClient(c *gin.Context) {
	id, ok := a.idParam(c)
	if !ok {
		return
	}
	if err := a.Clients.Delete(id); err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
