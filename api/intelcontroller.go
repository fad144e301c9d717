package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roadwatch/reports"
	"roadwatch/types"
)

// IntelService is the pipeline capability the controller consumes.
type IntelService interface {
	GetAreaIntel(ctx context.Context, target types.AreaTarget) (*types.IntelPayload, error)
	GetRouteIntel(ctx context.Context, target types.RouteTarget) (*types.IntelPayload, error)
}

// IntelController serves intelligence queries.
type IntelController struct {
	service IntelService
}

// NewIntelController creates a controller over the pipeline service.
func NewIntelController(service IntelService) *IntelController {
	return &IntelController{service: service}
}

// RegisterRoutes registers the intelligence endpoints.
func (ic *IntelController) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/api/intel")
	g.POST("/area", ic.handleAreaIntel)
	g.POST("/route", ic.handleRouteIntel)
}

// AreaIntelRequest identifies a single location.
type AreaIntelRequest struct {
	Name  string `json:"name" binding:"required"`
	LGA   string `json:"lga"`
	State string `json:"state" binding:"required"`
}

// RouteIntelRequest identifies a multi-state journey.
type RouteIntelRequest struct {
	Label  string       `json:"label"`
	States []string     `json:"states" binding:"required,min=1"`
	Roads  []types.Road `json:"roads"`
}

// IntelResponse is the stable consumer-facing shape: identical regardless of
// which pipeline stages succeeded, so clients never special-case partial
// failures.
type IntelResponse struct {
	*types.IntelPayload
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

func (ic *IntelController) handleAreaIntel(c *gin.Context) {
	var req AreaIntelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, IntelResponse{Error: "invalid request: " + err.Error()})
		return
	}

	payload, err := ic.service.GetAreaIntel(c.Request.Context(), types.AreaTarget{
		Name:  req.Name,
		LGA:   req.LGA,
		State: req.State,
	})
	ic.respond(c, payload, err)
}

func (ic *IntelController) handleRouteIntel(c *gin.Context) {
	var req RouteIntelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, IntelResponse{Error: "invalid request: " + err.Error()})
		return
	}

	payload, err := ic.service.GetRouteIntel(c.Request.Context(), types.RouteTarget{
		Label:  req.Label,
		States: req.States,
		Roads:  req.Roads,
	})
	ic.respond(c, payload, err)
}

func (ic *IntelController) respond(c *gin.Context, payload *types.IntelPayload, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, reports.ErrSourceUnavailable) {
			status = http.StatusBadGateway
		}
		c.JSON(status, IntelResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, IntelResponse{IntelPayload: payload})
}
