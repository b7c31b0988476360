// README: API gateway; registers HTTP routes and delegates to the agent.
package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"cabbot/internal/agent"
	"cabbot/internal/http/middleware"
	"cabbot/internal/session"
)

// Assistant is the conversational surface the chat endpoint fronts.
type Assistant interface {
	ProcessMessage(ctx context.Context, env agent.Envelope) (agent.Reply, error)
}

type ServerDeps struct {
	Agent    Assistant
	Sessions session.Store
	Redis    *redis.Client
}

type Server struct {
	agent    Assistant
	sessions session.Store
	redis    *redis.Client
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		agent:    deps.Agent,
		sessions: deps.Sessions,
		redis:    deps.Redis,
	}
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	r.POST("/chat", s.HandleChat)
	r.GET("/sessions", s.HandleListSessions)
	r.GET("/health", s.HandleHealth)
	return r
}
