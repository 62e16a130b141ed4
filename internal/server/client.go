package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/npezzotti/go-social/internal/types"
	"github.com/teris-io/shortid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Client is one live connection. The owning user's identity is resolved at
// accept time and cached for the connection's lifetime; sessionId identifies
// this particular connection so a stale close cannot evict a replacement.
type Client struct {
	conn      *websocket.Conn
	server    *MessagingServer
	log       *log.Logger
	user      types.User
	sessionId string
	send      chan *ServerFrame
	stop      chan struct{}
	stopOnce  sync.Once
	created   time.Time
}

func NewClient(user types.User, conn *websocket.Conn, ms *MessagingServer, l *log.Logger) (*Client, error) {
	sid, err := shortid.Generate()
	if err != nil {
		return nil, err
	}

	return &Client{
		conn:      conn,
		server:    ms,
		log:       l,
		user:      user,
		sessionId: sid,
		send:      make(chan *ServerFrame, 256),
		stop:      make(chan struct{}),
		created:   time.Now(),
	}, nil
}

func (c *Client) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.log.Printf("write loop for session %s exiting", c.sessionId)
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				return
			}

			bytes, err := json.Marshal(frame)
			if err != nil {
				c.log.Println("failed to serialize frame:", err)
				continue
			}

			if !c.sendMessage(websocket.TextMessage, bytes) {
				return
			}
		case <-c.stop:
			return
		case <-ticker.C:
			if !c.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) Read() {
	defer func() {
		c.conn.Close()
		c.cleanup()
		c.log.Printf("read loop for session %s exiting", c.sessionId)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(appData string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Printf("ws: read: %v", err)
			}
			break
		}

		var frame ClientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.log.Println("error parsing frame:", err)
			c.queueMessage(ErrorFrame("", "invalid frame format"))
			continue
		}

		c.handleFrame(&frame)
	}
}

// handleFrame dispatches one inbound envelope. The kind set is closed;
// anything else is dropped with a logged warning and the connection stays
// open.
func (c *Client) handleFrame(frame *ClientFrame) {
	switch frame.Type {
	case FrameChat:
		c.server.routeDirect(c, frame)
	case FrameGroupChat:
		c.server.routeGroup(c, frame)
	case FrameTyping, FrameStopTyping:
		c.server.relayTyping(c, frame)
	default:
		c.log.Printf("dropping frame with unknown type %q from user %d", frame.Type, c.user.Id)
	}
}

// queueMessage enqueues a frame for the write loop without blocking. Frames
// are dropped when the client's buffer is full; presence frames are full
// snapshots, so a dropped one is made good by the next broadcast.
func (c *Client) queueMessage(frame *ServerFrame) bool {
	select {
	case c.send <- frame:
	default:
		c.log.Printf("send buffer full for session %s, dropping frame", c.sessionId)
		return false
	}

	return true
}

func (c *Client) sendMessage(msgType int, msg []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Printf("write message: %s", err)
		}
		return false
	}

	return true
}

func (c *Client) close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Client) cleanup() {
	c.server.dropClient(c)
	c.close()
}
