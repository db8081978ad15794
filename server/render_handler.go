package server

import (
	"net/http"

	"Framecast/logger"
)

// RenderProjectHandler runs a full render of the project and blocks until
// it finishes. Progress is observable over the websocket feed; a second
// render of the same project is rejected while the first one runs.
func (h *APIHandler) RenderProjectHandler(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	artifact, err := h.orchestrator.Render(r.Context(), projectID)
	if err != nil {
		logger.Error("render failed", logger.Int64("projectId", projectID), logger.ErrorField(err))
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, artifact)
}

// ListRendersHandler returns the project's rendered artifacts, newest first.
func (h *APIHandler) ListRendersHandler(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	infos, err := h.mediaRepo.ListArtifactsByProject(r.Context(), projectID)
	if err != nil {
		logger.Error("list renders failed", logger.Int64("projectId", projectID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list renders")
		return
	}
	writeJSON(w, http.StatusOK, infos)
}
