package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one live connection and its room association. The code and
// slot fields are only touched under the registry mutex; a slot of -1
// means unassociated.
type Client struct {
	conn *websocket.Conn
	send chan any

	code string
	slot int
}

// trySend queues a message without blocking. A peer that stopped
// draining simply loses messages; its own read loop will notice the
// dead connection soon enough.
func (c *Client) trySend(msg any) {
	select {
	case c.send <- msg:
	default:
	}
}

func serveWS(cfg *Config, reg *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		logf(cfg, "SOCKET: Connection from %s", realIP(r))

		client := &Client{
			conn: conn,
			send: make(chan any, 8),
			slot: -1,
		}

		go client.writePump()
		client.readPump(reg)
	}
}

func (c *Client) readPump(reg *Registry) {
	defer func() {
		// A dropped transport counts as an explicit leave, so rooms
		// never hold a dead connection.
		_ = reg.Leave(c)
		close(c.send)
		_ = c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "" {
			continue
		}

		c.dispatch(reg, msg)
	}
}

// dispatch routes one inbound message. Failures are reported only to
// the sender; unassociated senders get silence, matching the relay's
// defensive no-op stance.
func (c *Client) dispatch(reg *Registry, msg ClientMessage) {
	var err error

	switch msg.Type {
	case "create_room":
		err = reg.CreateRoom(c)
	case "join_room":
		err = reg.JoinRoom(c, strings.ToUpper(strings.TrimSpace(msg.Code)))
	case "auto_match":
		err = reg.AutoMatch(c)
	case "list_rooms":
		reg.ListRooms(c)
	case "leave_room":
		err = reg.Leave(c)
	case "ready":
		err = reg.Ready(c)
	case "shot":
		err = reg.Shot(c, msg.Row, msg.Col)
	case "shot_result":
		err = reg.ShotResult(c, msg.Row, msg.Col, msg.Result, msg.Win)
	default:
		// ignore unknown types
	}

	if err != nil && !errors.Is(err, ErrNotInRoom) {
		c.trySend(ErrorMessage{
			Type:    "error",
			Message: err.Error(),
		})
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
