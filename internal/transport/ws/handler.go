// Package ws exposes the quiz over a websocket so the bot can be exercised
// locally without a messaging provider in front of it.
package ws

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"quizbot/internal/engine"
	"quizbot/internal/format"
)

type Handler struct {
	engine    *engine.Engine
	formatter *format.Formatter
	upgrader  websocket.Upgrader
}

func NewHandler(eng *engine.Engine, formatter *format.Formatter) *Handler {
	return &Handler{
		engine:    eng,
		formatter: formatter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type messagePayload struct {
	Text string `json:"text"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the connection and runs a request/reply chat loop. One
// websocket maps to one quiz user, so concurrent writes cannot happen and
// no writer fan-out is needed.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "message":
			var payload messagePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.send(conn, outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid message payload"}})
				continue
			}
			reply, err := h.engine.Handle(r.Context(), userID, payload.Text)
			if err != nil {
				log.Printf("ws handle for %s: %v", userID, err)
				h.send(conn, outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "internal error"}})
				continue
			}
			h.send(conn, outboundMessage[format.Payload]{Type: "reply", Payload: h.formatter.Render(reply)})
		default:
			h.send(conn, outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, msg any) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("ws write error: %v", err)
	}
}
