// README: Chat endpoint; authenticated identity in, reply plus trip flags out.
package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cabbot/internal/agent"
	"cabbot/internal/backend"
	"cabbot/internal/types"
)

type chatLocation struct {
	City        string `json:"city"`
	Coordinates string `json:"coordinates"`
	PlaceName   string `json:"placeName"`
}

type chatReq struct {
	UID            string        `json:"uid"`
	Message        string        `json:"message"`
	Name           string        `json:"name"`
	Phone          string        `json:"phone"`
	ProfileImage   string        `json:"profileImage"`
	Source         string        `json:"source"`
	PickupLocation *chatLocation `json:"pickupLocation"`
	DropLocation   *chatLocation `json:"dropLocation"`
}

type chatResp struct {
	ReplyText     string `json:"reply_text"`
	TripCreated   bool   `json:"trip_created"`
	TripCancelled bool   `json:"trip_cancelled"`
	Source        string `json:"source,omitempty"`
}

// HandleChat handles POST /chat.
func (s *Server) HandleChat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.UID = strings.TrimSpace(req.UID)
	req.Message = strings.TrimSpace(req.Message)
	if req.UID == "" || req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing uid or message")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 45*time.Second)
	defer cancel()

	reply, err := s.agent.ProcessMessage(ctx, agent.Envelope{
		UserID:  types.ID(req.UID),
		Message: req.Message,
		Identity: backend.Customer{
			ID:           types.ID(req.UID),
			Name:         req.Name,
			Phone:        req.Phone,
			ProfileImage: req.ProfileImage,
		},
		Source:     req.Source,
		PickupHint: toLocation(req.PickupLocation),
		DropHint:   toLocation(req.DropLocation),
	})
	if err != nil {
		writeAgentError(c, err)
		return
	}

	writeJSON(c, http.StatusOK, chatResp{
		ReplyText:     reply.Text,
		TripCreated:   reply.TripCreated,
		TripCancelled: reply.TripCancelled,
		Source:        req.Source,
	})
}

// HandleListSessions handles GET /sessions.
func (s *Server) HandleListSessions(c *gin.Context) {
	ids, err := s.sessions.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if ids == nil {
		ids = []types.ID{}
	}
	writeJSON(c, http.StatusOK, gin.H{"sessions": ids, "count": len(ids)})
}

// HandleHealth handles GET /health.
func (s *Server) HandleHealth(c *gin.Context) {
	status := gin.H{"status": "ok"}
	if s.redis != nil {
		if err := s.redis.Ping(c.Request.Context()).Err(); err != nil {
			status["status"] = "degraded"
			status["redis"] = err.Error()
			writeJSON(c, http.StatusServiceUnavailable, status)
			return
		}
		status["redis"] = "ok"
	}
	writeJSON(c, http.StatusOK, status)
}

func toLocation(in *chatLocation) *backend.Location {
	if in == nil || strings.TrimSpace(in.City) == "" {
		return nil
	}
	return &backend.Location{
		City:        in.City,
		Coordinates: in.Coordinates,
		PlaceName:   in.PlaceName,
	}
}
