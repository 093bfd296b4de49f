package controllers

import (
	"net/http"
	"time"

	"github.com/K-Thour/PointsServer/middlewares"
	"github.com/K-Thour/PointsServer/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const pingInterval = 25 * time.Second

type RealtimeController struct {
	RT  *services.RealtimeHub
	Log *zap.Logger
}

func NewRealtimeController(rt *services.RealtimeHub, log *zap.Logger) *RealtimeController {
	return &RealtimeController{RT: rt, Log: log}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // CORS middleware owns origin policy
}

// GET /api/points/ws streams record.created events for the caller.
func (rc *RealtimeController) RecordsWS(c *gin.Context) {
	uid, ok := middlewares.UserID(c)
	if !ok {
		respondError(c, rc.Log, services.Unauthenticated(services.MsgInvalidToken))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.WSClient{UserID: uid, Conn: conn}
	rc.RT.Register(cl)

	done := make(chan struct{})
	defer func() {
		close(done)
		rc.RT.Unregister(cl)
	}()

	// keep the connection alive through proxies
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := cl.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// the read loop ends when the client closes or errors
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
