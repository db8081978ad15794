package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"Framecast/core/render"
	"Framecast/logger"
)

var renderUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type renderEvent struct {
	ProjectID int64  `json:"projectId"`
	State     string `json:"state"`
	Detail    string `json:"detail,omitempty"`
}

// RenderHub fans render state transitions out to websocket subscribers.
// Subscribers register per project; a slow or dead peer is dropped rather
// than allowed to stall the render.
type RenderHub struct {
	mu   sync.Mutex
	subs map[int64]map[*websocket.Conn]struct{}
}

func NewRenderHub() *RenderHub {
	return &RenderHub{subs: make(map[int64]map[*websocket.Conn]struct{})}
}

// Publish is wired as the orchestrator progress callback.
func (hub *RenderHub) Publish(projectID int64, state render.State, detail string) {
	event := renderEvent{ProjectID: projectID, State: state.String(), Detail: detail}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	for conn := range hub.subs[projectID] {
		if err := conn.WriteJSON(event); err != nil {
			logger.Warn("render progress peer dropped",
				logger.Int64("projectId", projectID), logger.ErrorField(err))
			conn.Close()
			delete(hub.subs[projectID], conn)
		}
	}
}

func (hub *RenderHub) add(projectID int64, conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.subs[projectID] == nil {
		hub.subs[projectID] = make(map[*websocket.Conn]struct{})
	}
	hub.subs[projectID][conn] = struct{}{}
}

func (hub *RenderHub) remove(projectID int64, conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	delete(hub.subs[projectID], conn)
	if len(hub.subs[projectID]) == 0 {
		delete(hub.subs, projectID)
	}
}

// RenderProgressHandler upgrades to a websocket and streams render state
// transitions for one project until the peer disconnects.
func (h *APIHandler) RenderProgressHandler(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	conn, err := renderUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	h.renderHub.add(projectID, conn)
	defer func() {
		h.renderHub.remove(projectID, conn)
		conn.Close()
	}()

	// reads only serve to detect disconnect; clients do not send anything
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
