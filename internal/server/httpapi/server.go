// Package httpapi exposes the hacking minigame over HTTP+JSON for the
// surrounding chat server, plus the websocket signal feed, health and
// metrics endpoints.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lanternhq/lanternhack/internal/logging"
	"github.com/lanternhq/lanternhack/internal/server/auth"
	"github.com/lanternhq/lanternhack/internal/server/hack"
	"github.com/lanternhq/lanternhack/internal/server/repositories/stations"
	"github.com/lanternhq/lanternhack/internal/server/rounds"
	"github.com/lanternhq/lanternhack/internal/server/telemetry"
)

const shutdownTimeout = 5 * time.Second

// HackService is the slice of the hack orchestrator the transport needs.
type HackService interface {
	RequestChallenge(ctx context.Context, owner string, stationID int64) (*hack.Challenge, error)
	SubmitGuess(ctx context.Context, owner, password string, boosting bool) (*hack.GuessResult, error)
}

// RoundsService runs the admin-only round reset.
type RoundsService interface {
	Reset(ctx context.Context) (*rounds.ResetResult, error)
}

type Server struct {
	address   string
	hack      HackService
	rounds    RoundsService
	stations  stations.Repository
	hub       *telemetry.Hub
	logger    logging.Logger
	jwtSecret []byte
}

func NewServer(address string, hackSvc HackService, roundsSvc RoundsService,
	stationsRepo stations.Repository, hub *telemetry.Hub, logger logging.Logger, secretKey string) *Server {
	return &Server{
		address:   address,
		hack:      hackSvc,
		rounds:    roundsSvc,
		stations:  stationsRepo,
		hub:       hub,
		logger:    logger.With("module", "http_server"),
		jwtSecret: []byte(secretKey),
	}
}

// Router assembles the gin engine. Split out from Run so tests can drive
// handlers through httptest without binding a port.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(s.authenticate())

	api.GET("/stations", s.authorize(auth.CommandStationsList), s.handleStationsList)
	api.GET("/stations/:id", s.authorize(auth.CommandStationsList), s.handleStationByID)

	api.POST("/hack/challenge", s.authorize(auth.CommandChallenge), s.handleChallenge)
	api.POST("/hack/guess", s.authorize(auth.CommandGuess), s.handleGuess)
	api.GET("/hack/feed", s.authorize(auth.CommandStationsList), s.handleFeed)

	api.POST("/round/reset", s.authorize(auth.CommandRoundReset), s.handleRoundReset)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully and
// disconnects all feed subscribers.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
		if s.hub != nil {
			s.hub.Close()
		}
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
