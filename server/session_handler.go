package server

import (
	"encoding/json"
	"net/http"

	"Framecast/core/editor"
	"Framecast/model"
)

type sessionStateResponse struct {
	ProjectID            int64              `json:"projectId"`
	Player               editor.PlayerState `json:"player"`
	Scenes               []*model.Scene     `json:"scenes"`
	TotalFrames          int                `json:"totalFrames"`
	TotalDurationSeconds float64            `json:"totalDurationSeconds"`
	FPS                  int                `json:"fps"`
	Overlay              *model.Element     `json:"overlay,omitempty"`
}

func (h *APIHandler) sessionFor(w http.ResponseWriter, r *http.Request) *editor.Session {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return nil
	}
	session, err := h.sessions.Get(r.Context(), projectID)
	if err != nil {
		writeError(w, statusForError(err), "project not found")
		return nil
	}
	return session
}

func (h *APIHandler) writeSessionState(w http.ResponseWriter, session *editor.Session) {
	tl := session.Timeline()
	writeJSON(w, http.StatusOK, sessionStateResponse{
		ProjectID:            session.ProjectID(),
		Player:               session.Player(),
		Scenes:               tl.Scenes(),
		TotalFrames:          tl.TotalFrames(),
		TotalDurationSeconds: tl.TotalDurationSeconds(),
		FPS:                  tl.FPS(),
		Overlay:              session.Overlay(),
	})
}

// GetSessionHandler returns the live editing state for a project, opening a
// session on first access.
func (h *APIHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFor(w, r)
	if session == nil {
		return
	}
	h.writeSessionState(w, session)
}

type seekRequest struct {
	Frame      *int `json:"frame"`
	SceneIndex *int `json:"sceneIndex"`
}

// SeekHandler moves the playback cursor, either to an absolute frame or to
// the start of a scene by index.
func (h *APIHandler) SeekHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFor(w, r)
	if session == nil {
		return
	}

	var req seekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch {
	case req.Frame != nil:
		session.SeekTo(*req.Frame)
	case req.SceneIndex != nil:
		session.SeekToScene(*req.SceneIndex)
	default:
		writeError(w, http.StatusBadRequest, "frame or sceneIndex required")
		return
	}
	h.writeSessionState(w, session)
}

// PlayHandler starts playback, committing any pending edit first.
func (h *APIHandler) PlayHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFor(w, r)
	if session == nil {
		return
	}
	session.Play()
	h.writeSessionState(w, session)
}

// PauseHandler stops playback.
func (h *APIHandler) PauseHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFor(w, r)
	if session == nil {
		return
	}
	session.Pause()
	h.writeSessionState(w, session)
}

// TogglePlaybackHandler flips between playing and paused.
func (h *APIHandler) TogglePlaybackHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFor(w, r)
	if session == nil {
		return
	}
	session.Toggle()
	h.writeSessionState(w, session)
}

type zoomRequest struct {
	Zoom float64 `json:"zoom"`
}

// SetZoomHandler updates the editor zoom factor.
func (h *APIHandler) SetZoomHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFor(w, r)
	if session == nil {
		return
	}
	var req zoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Zoom <= 0 {
		writeError(w, http.StatusBadRequest, "zoom must be positive")
		return
	}
	session.SetZoom(req.Zoom)
	h.writeSessionState(w, session)
}

type animationsRequest struct {
	Enabled bool `json:"enabled"`
}

// SetAnimationsHandler toggles animation playback in the preview. The
// client disables it for the duration of a drag.
func (h *APIHandler) SetAnimationsHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFor(w, r)
	if session == nil {
		return
	}
	var req animationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session.SetAnimationsEnabled(req.Enabled)
	h.writeSessionState(w, session)
}

type selectRequest struct {
	ElementID int64 `json:"elementId"`
}

// SelectElementHandler switches the element under edit. elementId 0 clears
// the selection; either way a pending overlay is committed first.
func (h *APIHandler) SelectElementHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFor(w, r)
	if session == nil {
		return
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ElementID == 0 {
		session.Select(nil)
	} else {
		session.Select(&model.Element{ID: req.ElementID})
	}
	h.writeSessionState(w, session)
}

type overlayPatchRequest struct {
	Type           *model.ElementType `json:"type"`
	ElementNumber  *int               `json:"elementNumber"`
	FromSecond     *float64           `json:"fromSecond"`
	ToSecond       *float64           `json:"toSecond"`
	Content        *string            `json:"content"`
	MediaSource    *string            `json:"mediaSource"`
	PosX           *float64           `json:"posX"`
	PosY           *float64           `json:"posY"`
	Width          *float64           `json:"width"`
	Height         *float64           `json:"height"`
	Style          *string            `json:"style"`
	EnterAnimation *string            `json:"enterAnimation"`
	ExitAnimation  *string            `json:"exitAnimation"`
}

func (r overlayPatchRequest) patch() editor.ElementPatch {
	return editor.ElementPatch{
		Type:           r.Type,
		ElementNumber:  r.ElementNumber,
		FromSecond:     r.FromSecond,
		ToSecond:       r.ToSecond,
		Content:        r.Content,
		MediaSource:    r.MediaSource,
		PosX:           r.PosX,
		PosY:           r.PosY,
		Width:          r.Width,
		Height:         r.Height,
		Style:          r.Style,
		EnterAnimation: r.EnterAnimation,
		ExitAnimation:  r.ExitAnimation,
	}
}

// PatchOverlayHandler merges property changes into the edit buffer of the
// selected element. The canonical timeline stays untouched until commit.
func (h *APIHandler) PatchOverlayHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFor(w, r)
	if session == nil {
		return
	}
	if session.Overlay() == nil {
		writeError(w, http.StatusConflict, "no element selected")
		return
	}
	var req overlayPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session.UpdateOverlay(req.patch())
	writeJSON(w, http.StatusOK, session.Overlay())
}

// CommitOverlayHandler flushes the edit buffer into the timeline. Safe to
// call with nothing pending.
func (h *APIHandler) CommitOverlayHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFor(w, r)
	if session == nil {
		return
	}
	session.Commit()
	h.writeSessionState(w, session)
}
