package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"Framecast/logger"
	"Framecast/model"
	"Framecast/storage"
)

const maxUploadBytes = 512 << 20 // 512 MB

// UploadMediaHandler accepts a multipart file upload, stores it in the
// object store under uploads/ and records a media asset row. The response
// carries the public URL clients embed as an element mediaSource.
func (h *APIHandler) UploadMediaHandler(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	objectName := fmt.Sprintf("uploads/%s%s", uuid.New().String(), ext)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := storage.UploadStream(r.Context(), h.cfg.MinioBucket, objectName, file, header.Size, contentType); err != nil {
		logger.Error("media upload failed",
			logger.Int64("projectId", projectID),
			logger.String("object", objectName),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	asset := &model.MediaAsset{
		ProjectID: projectID,
		FileName:  objectName,
		Type:      model.MediaAssetTypeUpload,
		Size:      header.Size,
	}
	if err := h.mediaRepo.CreateMediaAsset(r.Context(), asset); err != nil {
		logger.Error("media asset record failed",
			logger.String("object", objectName), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to record upload")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"asset": asset,
		"url":   h.cfg.PublicAssetBase + objectName,
	})
}

// AssetHandler streams a stored object back to the client. It serves both
// uploaded media and finished renders under one /assets/ prefix, which is
// also the prefix the renderer rewrites before resolving sources.
func (h *APIHandler) AssetHandler(w http.ResponseWriter, r *http.Request) {
	objectName := mux.Vars(r)["object"]
	if objectName == "" || strings.Contains(objectName, "..") {
		writeError(w, http.StatusBadRequest, "invalid object name")
		return
	}

	obj, err := storage.GetObject(r.Context(), h.cfg.MinioBucket, objectName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to open object")
		return
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		writeError(w, http.StatusNotFound, "object not found")
		return
	}

	if stat.ContentType != "" {
		w.Header().Set("Content-Type", stat.ContentType)
	}
	w.Header().Set("Content-Length", fmt.Sprintf("%d", stat.Size))
	w.Header().Set("Accept-Ranges", "bytes")

	if _, err := io.Copy(w, obj); err != nil {
		logger.Warn("asset stream interrupted",
			logger.String("object", objectName), logger.ErrorField(err))
	}
}
