package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/gigmatch/internal/cache"
	"github.com/yoockh/gigmatch/internal/services"
	"github.com/yoockh/gigmatch/internal/utils"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
)

type WSHandler struct {
	chat     services.ChatService
	pubsub   cache.PubSub
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(chat services.ChatService, ps cache.PubSub, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		chat:   chat,
		pubsub: ps,
		log:    log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsClientMsg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type wsServerError struct {
	Type    string     `json:"type"`
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) write(typ int, b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(typ, b)
}

func (w *wsConn) writeError(code utils.Code, msg string) {
	b, _ := json.Marshal(wsServerError{Type: "error", Code: code, Message: msg})
	_ = w.write(websocket.TextMessage, b)
}

// ConversationWS streams new messages of a conversation to a participant
// and accepts {"type":"message","content":...} frames from it.
func (h *WSHandler) ConversationWS(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	conversationID := c.Param("id")
	if _, err := h.chat.Authorize(c.Request.Context(), userID, conversationID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrader already wrote the response
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	incoming, closeSub := h.pubsub.Subscribe(ctx, cache.ConversationChannel(conversationID))
	defer closeSub()

	// reader: WS -> ChatService.Send
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}

			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				wc.writeError(utils.CodeInvalidArgument, "invalid json")
				continue
			}

			switch msg.Type {
			case "message":
				// the sent message comes back through the subscription
				if _, err := h.chat.Send(ctx, userID, conversationID, msg.Content); err != nil {
					code := utils.CodeInternal
					var ae *utils.AppError
					if errors.As(err, &ae) {
						code = ae.Code
					}
					wc.writeError(code, "failed to send message")
				}
			case "ping":
				_ = wc.write(websocket.TextMessage, []byte(`{"type":"pong"}`))
			default:
				wc.writeError(utils.CodeInvalidArgument, "unknown message type")
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	// writer: redis channel -> WS
	for {
		select {
		case <-readDone:
			return
		case <-ticker.C:
			if err := wc.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case payload, ok := <-incoming:
			if !ok {
				return
			}
			if err := wc.write(websocket.TextMessage, payload); err != nil {
				h.log.WithError(err).WithField("conversation_id", conversationID).Debug("websocket write failed")
				return
			}
		}
	}
}
