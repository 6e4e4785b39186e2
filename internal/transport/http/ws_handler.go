package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/session"
)

// WSHandler hosts one quiz session per websocket connection, backed by the
// in-process quiz service.
type WSHandler struct {
	service     *app.QuizService
	sessionOpts []session.Option
	upgrader    websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, sessionOpts ...session.Option) *WSHandler {
	return &WSHandler{
		service:     service,
		sessionOpts: sessionOpts,
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

type selectPayload struct {
	OptionIndex *int `json:"optionIndex"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives a session from client commands.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	// the server's read timeout must not cut a session short
	_ = conn.SetReadDeadline(time.Time{})

	sess := session.New(h.service, h.service, h.sessionOpts...)
	defer sess.Close()
	log.Printf("ws: session %s opened", sess.ID())

	ctx, cancelCtx := context.WithCancel(r.Context())
	defer cancelCtx()

	updates, cancel := sess.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: snap}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	reply := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			go sess.Start(ctx)
		case "submit":
			go sess.Submit(ctx)
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.OptionIndex == nil {
				reply(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid select payload"}})
				continue
			}
			if !sess.SelectAnswer(*payload.OptionIndex) {
				reply(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "option cannot be selected"}})
			}
		case "next":
			sess.Next()
		case "previous":
			sess.Previous()
		case "restart":
			sess.Restart()
		default:
			reply(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	sess.Close()
	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
	log.Printf("ws: session %s closed", sess.ID())
}
