package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/MarshHawk/unlimited-poker/game"
	"github.com/MarshHawk/unlimited-poker/logging"
)

const graphqlWSProtocol = "graphql-ws"

func parseMutationType(c *gin.Context) (game.MutationType, bool) {
	switch game.MutationType(c.Query("mutationType")) {
	case "":
		return "", true
	case game.MutationCreated:
		return game.MutationCreated, true
	case game.MutationUpdated:
		return game.MutationUpdated, true
	}
	c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: "unknown mutationType " + c.Query("mutationType")})
	return "", false
}

func accept(c *gin.Context) (*websocket.Conn, bool) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		Subprotocols:       []string{graphqlWSProtocol},
		InsecureSkipVerify: true,
	})
	if err != nil {
		restLogger.Error().Err(err).Msg("Websocket upgrade failed")
		return nil, false
	}
	return conn, true
}

// stream writes events to the socket until the client goes away or the
// subscription is closed.
func stream[T any](c *gin.Context, conn *websocket.Conn, events <-chan T) {
	ctx := conn.CloseRead(c.Request.Context())
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case ev, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "subscription closed")
				return
			}
			if err := writeEvent(ctx, conn, ev); err != nil {
				restLogger.Debug().Err(err).Msg("Websocket write failed")
				conn.Close(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, ev interface{}) error {
	return wsjson.Write(ctx, conn, ev)
}

func (s *Server) streamDeals(c *gin.Context) {
	mutationType, ok := parseMutationType(c)
	if !ok {
		return
	}
	sub := s.manager.Broadcaster().SubscribeDeals(game.DealFilter(mutationType, c.Query("tableId")))
	defer sub.Close()
	conn, ok := accept(c)
	if !ok {
		return
	}
	restLogger.Info().Str(logging.MutationKey, string(mutationType)).Msg("Deal subscription opened")
	stream(c, conn, sub.C())
}

func (s *Server) streamHandEvents(c *gin.Context) {
	mutationType, ok := parseMutationType(c)
	if !ok {
		return
	}
	handID := c.Query("handId")
	if handID == "" {
		handID = c.GetHeader(handTokenHeader)
	}
	sub := s.manager.Broadcaster().SubscribeHandEvents(game.HandEventFilter(mutationType, handID))
	defer sub.Close()
	conn, ok := accept(c)
	if !ok {
		return
	}
	restLogger.Info().Str(logging.HandIDKey, handID).Str(logging.MutationKey, string(mutationType)).Msg("Hand subscription opened")
	stream(c, conn, sub.C())
}

func (s *Server) streamTelemetry(c *gin.Context) {
	if s.telemetry == nil {
		c.JSON(http.StatusServiceUnavailable, appError{Code: http.StatusServiceUnavailable, Message: "telemetry is not enabled"})
		return
	}
	sub := s.telemetry.Subscribe(nil)
	defer sub.Close()
	conn, ok := accept(c)
	if !ok {
		return
	}
	stream(c, conn, sub.C())
}
