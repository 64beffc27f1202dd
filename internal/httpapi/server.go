package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/brunolopes/shiftcore/internal/explain"
	"github.com/brunolopes/shiftcore/internal/resultcache"
	"github.com/brunolopes/shiftcore/internal/signature"
	"github.com/brunolopes/shiftcore/internal/solver/driver"
)

// Server is the demo HTTP/WS transport around the core, grounded on
// the teacher's internal/api.Server (a *gin.Engine plus a cors.New()
// middleware, routes grouped under /api).
type Server struct {
	router *gin.Engine
	h      *Handler
}

// NewServer wires a Server. cache and explainer may be nil to disable
// result caching / cause explanation.
func NewServer(drv *driver.Driver, cache *resultcache.Cache, explainer *explain.Explainer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		router: gin.Default(),
		h:      NewHandler(drv, cache, explainer, logger),
	}

	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	s.router.Use(cors.New(cfg))

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.h.Health)
		api.POST("/solve", s.h.Solve)
		api.POST("/diagnose", s.h.Diagnose)
		api.GET("/solve/stream", s.solveStream)
	}
}

// Run starts the HTTP server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// solveStream upgrades to a WebSocket, reads one Config message, runs
// the solve while streaming progress ticks, then writes the final
// result. Grounded on strefethen-sonos-hub-go's
// internal/spotifysearch/connection_manager.go, simplified to a single
// request/response exchange per connection instead of a persistent
// multiplexed link.
func (s *Server) solveStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var req configDTO
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(gin.H{"type": "error", "error": err.Error()})
		return
	}
	cfg, err := req.toDomain()
	if err != nil {
		conn.WriteJSON(gin.H{"type": "error", "error": err.Error()})
		return
	}

	sig := signature.Compute(cfg)

	onProgress := func(runID uuid.UUID, elapsed time.Duration, fraction float64) {
		conn.WriteJSON(gin.H{
			"type":        "progress",
			"run_id":      runID.String(),
			"elapsed_ms":  elapsed.Milliseconds(),
			"fraction":    fraction,
		})
	}

	sched, warnings, err := s.h.drv.Solve(c.Request.Context(), cfg, onProgress)
	if err != nil {
		conn.WriteJSON(gin.H{"type": "error", "error": err.Error()})
		return
	}

	conn.WriteJSON(gin.H{
		"type":      "result",
		"signature": sig,
		"schedule":  newScheduleResponse(sched),
		"warnings":  newWarningResponses(warnings),
	})
}
