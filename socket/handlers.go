package socket

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/Marpace/drawing-app-backend/game"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Dispatcher is the coordinator as seen from the transport.
type Dispatcher interface {
	Dispatch(ctx context.Context, env game.ClientEnvelope)
	Disconnect(ctx context.Context, connId string)
	ValidateCode(ctx context.Context, code string) (game.ValidateCodeResponse, error)
}

const (
	validateTimeout   = 2 * time.Second
	disconnectTimeout = 5 * time.Second
)

type GameHandler struct {
	hub               *Hub
	dispatcher        Dispatcher
	upgrader          websocket.Upgrader
	messagesPerSecond int
}

func NewGameHandler(hub *Hub, dispatcher Dispatcher, allowedOrigins []string, messagesPerSecond int) *GameHandler {
	return &GameHandler{
		hub:        hub,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
			},
		},
		messagesPerSecond: messagesPerSecond,
	}
}

func (h *GameHandler) ServeWS(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(uuid.NewString(), conn, h.messagesPerSecond)
	h.hub.Register(client)
	log.Debug().Str("conn", client.id).Str("ip", ctx.ClientIP()).Msg("connection opened")

	go client.WritePump()

	reqCtx := ctx.Request.Context()
	client.ReadPump(reqCtx, h.dispatcher)

	h.hub.Unregister(client.id)

	disconnectCtx, cancel := context.WithTimeout(context.WithoutCancel(reqCtx), disconnectTimeout)
	defer cancel()
	h.dispatcher.Disconnect(disconnectCtx, client.id)
	log.Debug().Str("conn", client.id).Msg("connection closed")
}

func (h *GameHandler) ValidateRoomHandler(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), validateTimeout)
	defer cancel()

	resp, err := h.dispatcher.ValidateCode(reqCtx, ctx.Param("code"))
	if err != nil {
		log.Error().Err(err).Msg("code validation timed out")
		ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable"})
		return
	}

	if !resp.IsValid {
		ctx.JSON(http.StatusNotFound, resp)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (h *GameHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws", h.ServeWS)
	r.GET("/rooms/:code", h.ValidateRoomHandler)
}
