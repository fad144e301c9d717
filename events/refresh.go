package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"roadwatch/types"
)

// RefreshRequest asks the pipeline to invalidate a target so the next access
// recomputes it. Area requests carry name+state; route requests carry the
// label and state list.
type RefreshRequest struct {
	Kind   types.TargetKind `json:"kind"`
	Name   string           `json:"name,omitempty"`
	LGA    string           `json:"lga,omitempty"`
	State  string           `json:"state,omitempty"`
	Label  string           `json:"label,omitempty"`
	States []string         `json:"states,omitempty"`
	Roads  []types.Road     `json:"roads,omitempty"`
}

// Target converts the request into a pipeline target.
func (r RefreshRequest) Target() (types.Target, error) {
	switch r.Kind {
	case types.TargetArea:
		if r.Name == "" || r.State == "" {
			return nil, fmt.Errorf("area refresh requires name and state")
		}
		return types.AreaTarget{Name: r.Name, LGA: r.LGA, State: r.State}, nil
	case types.TargetRoute:
		if len(r.States) == 0 {
			return nil, fmt.Errorf("route refresh requires states")
		}
		return types.RouteTarget{Label: r.Label, States: r.States, Roads: r.Roads}, nil
	default:
		return nil, fmt.Errorf("unknown refresh kind %q", r.Kind)
	}
}

// Refresher is the piece of the pipeline service the handler needs.
type Refresher interface {
	Refresh(ctx context.Context, target types.Target)
}

// RefreshHandler consumes refresh requests and invalidates the matching
// cache keys. Malformed messages are marked and dropped; redelivering them
// cannot help.
type RefreshHandler struct {
	service Refresher
}

// NewRefreshHandler creates a handler over the pipeline service.
func NewRefreshHandler(service Refresher) *RefreshHandler {
	return &RefreshHandler{service: service}
}

// HandleMessage implements MessageHandler.
func (h *RefreshHandler) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var req RefreshRequest
	if err := json.Unmarshal(message, &req); err != nil {
		log.Printf("Warning: dropping malformed refresh request: %v", err)
		return true, nil
	}

	target, err := req.Target()
	if err != nil {
		log.Printf("Warning: dropping invalid refresh request: %v", err)
		return true, nil
	}

	h.service.Refresh(ctx, target)
	log.Printf("Invalidated cache for %s on refresh request", target.CacheKey())
	return true, nil
}
