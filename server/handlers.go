package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"Framecast/config"
	"Framecast/core/editor"
	"Framecast/core/render"
	"Framecast/core/timeline"
	"Framecast/logger"
	"Framecast/repository"

	"github.com/gorilla/mux"
)

// APIHandler carries the collaborators every HTTP handler needs.
type APIHandler struct {
	projectRepo  repository.ProjectRepository
	sceneRepo    repository.SceneRepository
	mediaRepo    repository.MediaRepository
	sessions     *editor.Manager
	orchestrator *render.Orchestrator
	renderHub    *RenderHub
	cfg          *config.Config
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(
	projectRepo repository.ProjectRepository,
	sceneRepo repository.SceneRepository,
	mediaRepo repository.MediaRepository,
	sessions *editor.Manager,
	orchestrator *render.Orchestrator,
	renderHub *RenderHub,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		projectRepo:  projectRepo,
		sceneRepo:    sceneRepo,
		mediaRepo:    mediaRepo,
		sessions:     sessions,
		orchestrator: orchestrator,
		renderHub:    renderHub,
		cfg:          cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// statusForError maps core errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, timeline.ErrSceneNotFound),
		errors.Is(err, timeline.ErrElementNotFound),
		errors.Is(err, render.ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, render.ErrRenderInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
