package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/orgball2608/insta-stories-viewer/internal/input"
	"github.com/orgball2608/insta-stories-viewer/internal/viewer"
	"github.com/orgball2608/insta-stories-viewer/pkg/errors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// openViewer opens the session before upgrading, so a bad index or a missing
// catalog is answered with a plain HTTP error.
func (h *Handler) openViewer(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.URL.Query().Get("user"))
	if err != nil {
		writeError(w, h.logger, errors.WrapWithCode(
			fmt.Errorf("%w: user must be an index", errors.ErrInvalidInput),
			errors.CodeBadRequest, "open viewer",
		))
		return
	}

	session, err := h.viewer.Open(idx)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the request.
		h.logger.Warn("Websocket upgrade failed", "session", session.ID(), "error", err)
		session.Stop()
		return
	}

	go h.writePump(conn, session)
	h.readPump(conn, session)
}

// readPump feeds client input to the session until the socket closes.
func (h *Handler) readPump(conn *websocket.Conn, session *viewer.Session) {
	defer session.Stop()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var ev input.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("Websocket read failed", "session", session.ID(), "error", err)
			}
			return
		}

		action := input.Map(ev)
		if action == input.ActionNone {
			continue
		}
		if !session.Handle(action) {
			return
		}
	}
}

// writePump is the only writer of conn. It ends when the session ends or a
// write fails.
func (h *Handler) writePump(conn *websocket.Conn, session *viewer.Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame, ok := <-session.Frames():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "viewer closed"))
				return
			}
			if err := conn.WriteJSON(frame); err != nil {
				h.logger.Debug("Websocket write failed", "session", session.ID(), "error", err)
				session.Stop()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				session.Stop()
				return
			}
		}
	}
}
