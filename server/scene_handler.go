package server

import (
	"context"
	"encoding/json"
	"net/http"

	"Framecast/core/editor"
	"Framecast/logger"
	"Framecast/model"
)

// refreshDurationCache updates the orientation's cached total duration
// after a scene mutation. Best effort; the timeline stays the source of
// truth.
func (h *APIHandler) refreshDurationCache(ctx context.Context, projectID int64, session *editor.Session) {
	orientation, err := h.projectRepo.GetOrientation(ctx, projectID)
	if err != nil || orientation == nil {
		return
	}
	orientation.DurationInSeconds = session.Timeline().TotalDurationSeconds()
	if err := h.projectRepo.UpdateOrientation(ctx, orientation); err != nil {
		logger.Warn("duration cache refresh failed",
			logger.Int64("projectId", projectID), logger.ErrorField(err))
	}
}

type createSceneRequest struct {
	SceneNumber       int     `json:"sceneNumber"`
	DurationInSeconds float64 `json:"durationInSeconds"`
	Title             string  `json:"title"`
	Script            string  `json:"script"`
}

// CreateSceneHandler appends a scene to a project. The next sceneNumber is
// assigned when the request leaves it zero.
func (h *APIHandler) CreateSceneHandler(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var req createSceneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DurationInSeconds <= 0 {
		writeError(w, http.StatusBadRequest, "durationInSeconds must be positive")
		return
	}

	session, err := h.sessions.Get(r.Context(), projectID)
	if err != nil {
		writeError(w, statusForError(err), "project not found")
		return
	}

	scene := &model.Scene{
		ProjectID:         projectID,
		SceneNumber:       req.SceneNumber,
		DurationInSeconds: req.DurationInSeconds,
		Title:             req.Title,
		Script:            req.Script,
	}
	if scene.SceneNumber == 0 {
		scene.SceneNumber = session.Timeline().NextSceneNumber()
	}

	// persist first so the response carries the database id, then adopt
	// into the live session
	if err := h.sceneRepo.CreateScene(r.Context(), scene); err != nil {
		logger.Error("create scene failed", logger.Int64("projectId", projectID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to create scene")
		return
	}
	session.AdoptScene(scene.Clone())
	h.refreshDurationCache(r.Context(), projectID, session)

	writeJSON(w, http.StatusCreated, scene)
}

type updateSceneRequest struct {
	SceneNumber       *int     `json:"sceneNumber"`
	DurationInSeconds *float64 `json:"durationInSeconds"`
	Title             *string  `json:"title"`
	Script            *string  `json:"script"`
}

// UpdateSceneHandler updates scene properties through the editing session:
// the change applies locally first and replicates in the background.
func (h *APIHandler) UpdateSceneHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scene id")
		return
	}

	var req updateSceneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, err := h.sceneRepo.GetScene(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scene")
		return
	}
	if stored == nil {
		writeError(w, http.StatusNotFound, "scene not found")
		return
	}

	session, err := h.sessions.Get(r.Context(), stored.ProjectID)
	if err != nil {
		writeError(w, statusForError(err), "project not found")
		return
	}

	updated := stored.Clone()
	if req.SceneNumber != nil {
		updated.SceneNumber = *req.SceneNumber
	}
	if req.DurationInSeconds != nil {
		if *req.DurationInSeconds <= 0 {
			writeError(w, http.StatusBadRequest, "durationInSeconds must be positive")
			return
		}
		updated.DurationInSeconds = *req.DurationInSeconds
	}
	if req.Title != nil {
		updated.Title = *req.Title
	}
	if req.Script != nil {
		updated.Script = *req.Script
	}

	if err := session.UpdateScene(updated); err != nil {
		writeError(w, statusForError(err), "scene not found")
		return
	}
	h.refreshDurationCache(r.Context(), stored.ProjectID, session)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteSceneHandler removes a scene through the session, which repairs
// the playback cursor when the current scene disappears.
func (h *APIHandler) DeleteSceneHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scene id")
		return
	}

	stored, err := h.sceneRepo.GetScene(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scene")
		return
	}
	if stored == nil {
		writeError(w, http.StatusNotFound, "scene not found")
		return
	}

	session, err := h.sessions.Get(r.Context(), stored.ProjectID)
	if err != nil {
		writeError(w, statusForError(err), "project not found")
		return
	}
	if err := session.DeleteScene(id); err != nil {
		writeError(w, statusForError(err), "scene not found")
		return
	}
	h.refreshDurationCache(r.Context(), stored.ProjectID, session)

	writeJSON(w, http.StatusOK, map[string]string{"message": "scene deleted"})
}

type createElementRequest struct {
	ElementNumber  int               `json:"elementNumber"`
	Type           model.ElementType `json:"type"`
	FromSecond     float64           `json:"fromSecond"`
	ToSecond       *float64          `json:"toSecond"`
	Content        string            `json:"content"`
	MediaSource    string            `json:"mediaSource"`
	PosX           float64           `json:"posX"`
	PosY           float64           `json:"posY"`
	Width          float64           `json:"width"`
	Height         float64           `json:"height"`
	Style          string            `json:"style"`
	EnterAnimation string            `json:"enterAnimation"`
	ExitAnimation  string            `json:"exitAnimation"`
}

// CreateElementHandler appends an element to a scene.
func (h *APIHandler) CreateElementHandler(w http.ResponseWriter, r *http.Request) {
	sceneID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scene id")
		return
	}

	var req createElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type != model.ElementTypeText && req.Type != model.ElementTypeMedia {
		writeError(w, http.StatusBadRequest, "type must be text or media")
		return
	}
	if req.FromSecond < 0 {
		writeError(w, http.StatusBadRequest, "fromSecond must not be negative")
		return
	}
	toSecond := model.UntilSceneEnd
	if req.ToSecond != nil {
		toSecond = *req.ToSecond
		if toSecond != model.UntilSceneEnd && toSecond < req.FromSecond {
			writeError(w, http.StatusBadRequest, "toSecond must not precede fromSecond")
			return
		}
	}

	scene, err := h.sceneRepo.GetScene(r.Context(), sceneID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scene")
		return
	}
	if scene == nil {
		writeError(w, http.StatusNotFound, "scene not found")
		return
	}

	session, err := h.sessions.Get(r.Context(), scene.ProjectID)
	if err != nil {
		writeError(w, statusForError(err), "project not found")
		return
	}

	element := &model.Element{
		SceneID:        sceneID,
		ElementNumber:  req.ElementNumber,
		Type:           req.Type,
		FromSecond:     req.FromSecond,
		ToSecond:       toSecond,
		Content:        req.Content,
		MediaSource:    req.MediaSource,
		PosX:           req.PosX,
		PosY:           req.PosY,
		Width:          req.Width,
		Height:         req.Height,
		Style:          req.Style,
		EnterAnimation: req.EnterAnimation,
		ExitAnimation:  req.ExitAnimation,
	}
	if element.ElementNumber == 0 {
		if live := session.Timeline().SceneByID(sceneID); live != nil {
			element.ElementNumber = session.Timeline().NextElementNumber(live)
		} else {
			element.ElementNumber = 1
		}
	}

	if err := h.sceneRepo.CreateElement(r.Context(), element); err != nil {
		logger.Error("create element failed", logger.Int64("sceneId", sceneID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to create element")
		return
	}
	if err := session.AdoptElement(sceneID, element.Clone()); err != nil {
		logger.Warn("created element not adopted into session",
			logger.Int64("elementId", element.ID), logger.ErrorField(err))
	}

	writeJSON(w, http.StatusCreated, element)
}

// UpdateElementHandler replaces element properties through the session
// (non-overlay path, e.g. renumbering).
func (h *APIHandler) UpdateElementHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid element id")
		return
	}

	stored, err := h.sceneRepo.GetElement(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load element")
		return
	}
	if stored == nil {
		writeError(w, http.StatusNotFound, "element not found")
		return
	}
	scene, err := h.sceneRepo.GetScene(r.Context(), stored.SceneID)
	if err != nil || scene == nil {
		writeError(w, http.StatusInternalServerError, "failed to load scene")
		return
	}

	var req createElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessions.Get(r.Context(), scene.ProjectID)
	if err != nil {
		writeError(w, statusForError(err), "project not found")
		return
	}

	updated := stored.Clone()
	if req.ElementNumber != 0 {
		updated.ElementNumber = req.ElementNumber
	}
	if req.Type != "" {
		updated.Type = req.Type
	}
	updated.FromSecond = req.FromSecond
	if req.ToSecond != nil {
		updated.ToSecond = *req.ToSecond
	}
	updated.Content = req.Content
	updated.MediaSource = req.MediaSource
	updated.PosX = req.PosX
	updated.PosY = req.PosY
	updated.Width = req.Width
	updated.Height = req.Height
	updated.Style = req.Style
	updated.EnterAnimation = req.EnterAnimation
	updated.ExitAnimation = req.ExitAnimation

	if err := session.UpdateElement(updated); err != nil {
		writeError(w, statusForError(err), "element not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteElementHandler removes an element through the session.
func (h *APIHandler) DeleteElementHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid element id")
		return
	}

	stored, err := h.sceneRepo.GetElement(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load element")
		return
	}
	if stored == nil {
		writeError(w, http.StatusNotFound, "element not found")
		return
	}
	scene, err := h.sceneRepo.GetScene(r.Context(), stored.SceneID)
	if err != nil || scene == nil {
		writeError(w, http.StatusInternalServerError, "failed to load scene")
		return
	}

	session, err := h.sessions.Get(r.Context(), scene.ProjectID)
	if err != nil {
		writeError(w, statusForError(err), "project not found")
		return
	}
	if err := session.DeleteElement(id); err != nil {
		writeError(w, statusForError(err), "element not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "element deleted"})
}
