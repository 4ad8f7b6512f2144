package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lanternhq/lanternhack/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

type challengeRequest struct {
	StationID int64 `json:"station_id"`
}

type guessRequest struct {
	Password string `json:"password"`
	// Boosting defaults to true when omitted; pass false to cut the signal.
	Boosting *bool `json:"boosting"`
}

var feedUpgrader = websocket.Upgrader{
	// The chat server fronts this API; cross-origin policy is enforced there.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleStationsList(c *gin.Context) {
	list, err := s.stations.GetAll(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleStationByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid station id"})
		return
	}

	station, err := s.stations.GetByID(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, station)
}

func (s *Server) handleChallenge(c *gin.Context) {
	var req challengeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StationID <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "station_id is required"})
		return
	}

	challenge, err := s.hack.RequestChallenge(c.Request.Context(), callerIdentity(c).UserID, req.StationID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

func (s *Server) handleGuess(c *gin.Context) {
	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "password is required"})
		return
	}

	boosting := true
	if req.Boosting != nil {
		boosting = *req.Boosting
	}

	result, err := s.hack.SubmitGuess(c.Request.Context(), callerIdentity(c).UserID, req.Password, boosting)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleRoundReset(c *gin.Context) {
	result, err := s.rounds.Reset(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleFeed(c *gin.Context) {
	conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the handshake failure response.
		s.logger.Warn(c.Request.Context(), "feed upgrade failed", "error", err)
		return
	}
	s.hub.Register(conn)
}

// renderError maps the service error taxonomy to HTTP statuses. Internal
// detail never reaches the client; it is logged instead.
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid input"})
	case errors.Is(err, common.ErrNoActiveSession):
		c.JSON(http.StatusNotFound, errorResponse{Error: "no active hack session"})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrInsufficientCandidates):
		c.JSON(http.StatusConflict, errorResponse{Error: "station has no hackable accounts"})
	case errors.Is(err, common.ErrUnauthorized):
		c.JSON(http.StatusForbidden, errorResponse{Error: "not authorized"})
	case errors.Is(err, common.ErrExternal):
		c.JSON(http.StatusBadGateway, errorResponse{Error: "signal engine unavailable"})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
