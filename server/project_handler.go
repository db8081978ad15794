package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"Framecast/logger"
	"Framecast/model"
)

type createProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
	Orientation struct {
		Width  int `json:"width"`
		Height int `json:"height"`
		FPS    int `json:"fps"`
	} `json:"orientation"`
}

// CreateProjectHandler creates a project together with its orientation.
func (h *APIHandler) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Orientation.Width <= 0 || req.Orientation.Height <= 0 || req.Orientation.FPS <= 0 {
		writeError(w, http.StatusBadRequest, "orientation width, height and fps must be positive")
		return
	}

	project := &model.Project{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		IsPublic:    req.IsPublic,
		State:       1,
		Orientation: &model.Orientation{
			Width:  req.Orientation.Width,
			Height: req.Orientation.Height,
			FPS:    req.Orientation.FPS,
		},
	}
	if err := h.projectRepo.Create(r.Context(), project); err != nil {
		logger.Error("create project failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// ListProjectsHandler returns all live projects, most recently edited first.
func (h *APIHandler) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectRepo.List(r.Context())
	if err != nil {
		logger.Error("list projects failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// GetProjectHandler returns one project with its scenes and elements.
func (h *APIHandler) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	project, err := h.projectRepo.GetByID(r.Context(), id)
	if err != nil {
		logger.Error("get project failed", logger.Int64("projectId", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to load project")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	scenes, err := h.sceneRepo.ListWithElements(r.Context(), id)
	if err != nil {
		logger.Error("load scenes failed", logger.Int64("projectId", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to load scenes")
		return
	}
	project.Scenes = scenes

	writeJSON(w, http.StatusOK, project)
}

type updateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"isPublic"`
}

// UpdateProjectHandler updates title, description and visibility.
func (h *APIHandler) UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.projectRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load project")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			writeError(w, http.StatusBadRequest, "title must not be empty")
			return
		}
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.IsPublic != nil {
		project.IsPublic = *req.IsPublic
	}

	if err := h.projectRepo.Update(r.Context(), project); err != nil {
		logger.Error("update project failed", logger.Int64("projectId", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to update project")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// DeleteProjectHandler soft-deletes a project and drops its session.
func (h *APIHandler) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	if err := h.projectRepo.SoftDelete(r.Context(), id); err != nil {
		logger.Error("delete project failed", logger.Int64("projectId", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}
	h.sessions.Drop(id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}
