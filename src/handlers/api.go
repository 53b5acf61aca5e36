// Package handlers contains the gin handlers for the JSON API. Handlers
// parse and bind input, call into the models layer and translate its
// error taxonomy to HTTP statuses; all business rules live in models.
package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chipdesk/chipdesk/src/models"
	"github.com/chipdesk/chipdesk/src/utils"
)

// API bundles the model layer behind the HTTP handlers.
type API struct {
	Devices  *models.DeviceModel
	Numbers  *models.NumberModel
	Clients  *models.ClientModel
	Logs     *models.LogModel
	Settings *models.SettingsModel
	Logger   *utils.Logger
}

// NewAPI wires the handlers to a database handle.
func NewAPI(db *sql.DB, logger *utils.Logger) *API {
	return &API{
		Devices:  &models.DeviceModel{DB: db},
		Numbers:  &models.NumberModel{DB: db},
		Clients:  &models.ClientModel{DB: db},
		Logs:     &models.LogModel{DB: db},
		Settings: &models.SettingsModel{DB: db},
		Logger:   logger,
	}
}

// respondError maps the models error taxonomy onto HTTP statuses.
// Anything unclassified is logged and surfaced as an opaque 500.
func (a *API) respondError(c *gin.Context, err error) {
	var ve *models.ValidationError
	var ce *models.ConflictError
	var nf *models.NotFoundError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, gin.H{"error": ce.Msg})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	default:
		if a.Logger != nil {
			a.Logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// idParam parses the :id path parameter, responding 400 on garbage.
func (a *API) idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// HealthCheck handles GET /api/health.
func (a *API) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "chipdesk API online"})
}
