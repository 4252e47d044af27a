package gateway

import (
	"context"
	"net/http"

	"github.com/mcdev12/sidereal/go/internal/power"
	"github.com/rs/zerolog/log"
)

// Service is the presentation surface: the JSON API plus the WebSocket
// event stream.
type Service struct {
	connectionManager *ConnectionManager
	platform          *RemotePlatform
	visibility        *power.Visibility
	wsHandler         *WebSocketHandler
	gameHandler       *GameHandler
}

// NewService creates the gateway. Client visibility reports go to
// visibility and wake lock answers to platform.
func NewService(cm *ConnectionManager, platform *RemotePlatform, visibility *power.Visibility, app GameApp) *Service {
	s := &Service{
		connectionManager: cm,
		platform:          platform,
		visibility:        visibility,
		wsHandler:         NewWebSocketHandler(cm),
		gameHandler:       NewGameHandler(app),
	}
	cm.handler = s
	return s
}

// Start runs the broadcast loop until ctx is done.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting gateway service")
	s.connectionManager.Start(ctx)
	log.Info().Msg("gateway service stopped")
	return nil
}

// RegisterRoutes registers the API and WebSocket routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	s.gameHandler.RegisterRoutes(mux)
	mux.HandleFunc("GET /ws/stats", s.HandleStats)
	log.Info().Msg("gateway routes registered")
}

// HandleVisibility applies a client's visibility report.
func (s *Service) HandleVisibility(hidden bool) {
	s.visibility.SetHidden(hidden)
}

// HandleWakeLockResult passes a client's wake lock answer to the platform.
func (s *Service) HandleWakeLockResult(result WakeLockResult) {
	s.platform.resolve(result)
}

// HandleFirstConnection treats a newly connected client as foregrounded
// until it reports otherwise.
func (s *Service) HandleFirstConnection() {
	s.visibility.SetHidden(false)
}

// HandleStats handles GET /ws/stats
func (s *Service) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.GetStats())
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() map[string]interface{} {
	stats := s.connectionManager.GetConnectionStats()
	stats["service"] = "sidereal_gateway"
	stats["status"] = "running"
	return stats
}
