package realtime

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aryarobyy/to-do-list-be/pkg/logger"
)

const (
	actionStreamNote = "stream-note"
	actionStreamUser = "stream-user"

	eventNoteStream = "note-stream"
	eventUserStream = "user-stream"

	writeTimeout = 10 * time.Second
	sendBuffer   = 32
)

type clientMessage struct {
	Action string `json:"action"`
	UserID string `json:"userId"`
	NoteID string `json:"noteId"`
}

type serverMessage struct {
	Event string         `json:"event"`
	Path  string         `json:"path"`
	Gone  bool           `json:"gone,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

// SocketHandler upgrades HTTP requests to websocket connections and
// speaks the stream protocol: the client asks to stream a note or a
// user document, the server pushes one frame per change and a gone
// frame when the document is deleted.
type SocketHandler struct {
	manager  *Manager
	log      *logger.Logger
	upgrader websocket.Upgrader
}

// NewSocketHandler returns a handler bound to the manager.
func NewSocketHandler(manager *Manager, log *logger.Logger) *SocketHandler {
	return &SocketHandler{
		manager: manager,
		log:     log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handle runs one websocket connection until either endpoint closes it.
// All registered watches are torn down before the handler returns.
func (h *SocketHandler) Handle(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn(c.Request.Context(), "websocket upgrade failed", zap.Error(err))
		return
	}

	connID := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan serverMessage, sendBuffer)
	done := make(chan struct{})

	h.manager.Connect(connID)
	h.log.Debug(ctx, "client connected", zap.String("conn", connID))

	// Single writer for the socket; gorilla does not allow concurrent
	// writes.
	go func() {
		defer ws.Close()
		for {
			select {
			case msg := <-out:
				ws.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := ws.WriteJSON(msg); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	send := func(event string) func(Event) {
		return func(ev Event) {
			msg := serverMessage{Event: event, Path: ev.Path, Gone: ev.Gone, Data: ev.Data}
			select {
			case out <- msg:
			case <-done:
			}
		}
	}

	for {
		var msg clientMessage
		if err := ws.ReadJSON(&msg); err != nil {
			break
		}

		var path, event string
		switch msg.Action {
		case actionStreamNote:
			if msg.UserID == "" || msg.NoteID == "" {
				continue
			}
			path = "users/" + msg.UserID + "/notes/" + msg.NoteID
			event = eventNoteStream
		case actionStreamUser:
			if msg.UserID == "" {
				continue
			}
			path = "users/" + msg.UserID
			event = eventUserStream
		default:
			continue
		}

		if err := h.manager.Watch(ctx, connID, path, send(event)); err != nil {
			h.log.Warn(ctx, "watch failed", zap.String("conn", connID), zap.String("path", path), zap.Error(err))
		}
	}

	h.manager.UnwatchAll(connID)
	close(done)
	cancel()
	h.log.Debug(ctx, "client disconnected", zap.String("conn", connID))
}
