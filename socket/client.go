package socket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Marpace/drawing-app-backend/game"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = time.Minute
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256

	DefaultMessagesPerSecond = 60
)

// Client is one websocket connection. The read pump feeds the dispatcher and
// the write pump drains send.
type Client struct {
	id          string
	conn        *websocket.Conn
	send        chan []byte
	rateLimiter *rate.Limiter
	rooms       map[string]struct{} // guarded by Hub.mu
}

func NewClient(id string, conn *websocket.Conn, messagesPerSecond int) *Client {
	if messagesPerSecond <= 0 {
		messagesPerSecond = DefaultMessagesPerSecond
	}
	return &Client{
		id:          id,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		rateLimiter: rate.NewLimiter(rate.Limit(messagesPerSecond), messagesPerSecond*2),
		rooms:       make(map[string]struct{}),
	}
}

func (c *Client) Id() string {
	return c.id
}

// enqueue never blocks. A slow client loses messages instead of stalling the
// coordinator.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Warn().Str("conn", c.id).Msg("send buffer full, dropping message")
	}
}

func (c *Client) ReadPump(ctx context.Context, dispatcher Dispatcher) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("conn", c.id).Msg("read failed")
			}
			return
		}

		if !c.rateLimiter.Allow() {
			log.Debug().Str("conn", c.id).Msg("rate limited, dropping message")
			continue
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Event == "" {
			log.Debug().Str("conn", c.id).Msg("malformed message")
			continue
		}

		dispatcher.Dispatch(ctx, game.ClientEnvelope{From: c.id, Event: msg.Event, Data: msg.Data})
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
