package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/MarshHawk/unlimited-poker/game"
	"github.com/MarshHawk/unlimited-poker/logging"
	"github.com/MarshHawk/unlimited-poker/nats"
	"github.com/MarshHawk/unlimited-poker/pubsub"
)

var restLogger = log.With().Str("logger_name", "rest::rest").Logger()

const (
	userTokenHeader  = "x-user-token"
	tableTokenHeader = "x-table-token"
	handTokenHeader  = "x-hand-token"
)

type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type successorError struct {
	appError
	ClosedHandID string         `json:"closedHandId"`
	Seating      game.DealInput `json:"seating"`
}

type actionPayload struct {
	PlayerID string  `json:"playerId" binding:"required"`
	Action   string  `json:"action" binding:"required"`
	Amount   float64 `json:"amount"`
}

type actionResponse struct {
	HandID     string `json:"handId"`
	NextHandID string `json:"nextHandId,omitempty"`
	Completed  bool   `json:"completed"`
}

type Server struct {
	manager   *game.Manager
	telemetry *pubsub.Broker[nats.Telemetry]
	engine    *gin.Engine
}

// NewServer builds the HTTP routes. telemetry may be nil when no message
// bus is configured.
func NewServer(manager *game.Manager, telemetry *pubsub.Broker[nats.Telemetry]) *Server {
	s := &Server{
		manager:   manager,
		telemetry: telemetry,
		engine:    gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestLogger())

	s.engine.GET("/ready", s.ready)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine.POST("/deal", s.deal)
	s.engine.POST("/actions", s.playAction)
	s.engine.POST("/hands/:id/actions", s.playAction)
	s.engine.GET("/hands/:id", s.getHand)
	s.engine.GET("/tables/:id/hand", s.getTableHand)

	s.engine.GET("/ws/deals", s.streamDeals)
	s.engine.GET("/ws/hands", s.streamHandEvents)
	s.engine.GET("/ws/telemetry", s.streamTelemetry)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	restLogger.Info().Msgf("REST server listening on %s", addr)
	return s.engine.Run(addr)
}

// requestLogger logs the caller tokens the clients send along.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		restLogger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Str("user", c.GetHeader(userTokenHeader)).
			Str(logging.TableIDKey, c.GetHeader(tableTokenHeader)).
			Str(logging.HandIDKey, c.GetHeader(handTokenHeader)).
			Msg("Request served")
	}
}

func (s *Server) ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) deal(c *gin.Context) {
	var input game.DealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		restLogger.Error().Msgf("Unable to parse deal request. Error: %v", err)
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	if input.TableID == "" {
		input.TableID = c.GetHeader(tableTokenHeader)
	}
	hand, err := s.manager.Deal(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"handId": hand.ID})
}

func (s *Server) playAction(c *gin.Context) {
	handID := c.Param("id")
	if handID == "" {
		handID = c.GetHeader(handTokenHeader)
	}
	if handID == "" {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: "hand id is required"})
		return
	}

	var payload actionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	action, err := game.ParsePlayerAction(payload.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}

	result, err := s.manager.PlayTurn(c.Request.Context(), game.ActionRequest{
		HandID:   handID,
		PlayerID: payload.PlayerID,
		Action:   action,
		Amount:   payload.Amount,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, actionResponse{
		HandID:     result.Hand.ID,
		NextHandID: result.NextHandID,
		Completed:  result.Hand.IsClosed(),
	})
}

func (s *Server) getHand(c *gin.Context) {
	hand, err := s.manager.Hand(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hand)
}

func (s *Server) getTableHand(c *gin.Context) {
	hand, err := s.manager.CurrentHand(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"handId": hand.ID, "tableId": hand.TableID, "closed": hand.IsClosed()})
}

func writeError(c *gin.Context, err error) {
	var (
		playerNotFound game.PlayerNotFoundError
		handNotFound   game.HandNotFoundError
		tableNotFound  game.TableNotFoundError
		invalid        game.InvalidActionError
		successor      game.SuccessorHandError
		external       game.ExternalServiceError
	)
	code := http.StatusInternalServerError
	switch {
	case errors.As(err, &successor):
		c.JSON(http.StatusConflict, successorError{
			appError:     appError{Code: http.StatusConflict, Message: err.Error()},
			ClosedHandID: successor.ClosedHandID,
			Seating:      successor.Seating,
		})
		return
	case errors.As(err, &playerNotFound), errors.As(err, &handNotFound), errors.As(err, &tableNotFound):
		code = http.StatusNotFound
	case errors.As(err, &invalid):
		code = http.StatusBadRequest
	case errors.As(err, &external):
		code = http.StatusBadGateway
	}
	if code >= http.StatusInternalServerError {
		restLogger.Error().Err(err).Int("status", code).Msg("Request failed")
	}
	c.JSON(code, appError{Code: code, Message: err.Error()})
}
