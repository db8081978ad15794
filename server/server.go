package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"Framecast/cache"
	"Framecast/config"
	"Framecast/core/editor"
	"Framecast/core/render"
	"Framecast/db"
	"Framecast/logger"
	"Framecast/model"
	"Framecast/repository"
	"Framecast/storage"
)

// Start wires the full backend and runs the HTTP server until interrupted.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
	})

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("failed to initialize MinIO", logger.ErrorField(err))
	}
	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseGormDB()
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()

	if err := db.AutoMigrateModels(
		&model.Project{},
		&model.Orientation{},
		&model.Scene{},
		&model.Element{},
		&model.MediaAsset{},
		&model.RenderedArtifact{},
	); err != nil {
		logger.Fatal("failed to migrate schema", logger.ErrorField(err))
	}

	profile, err := config.LoadRenderProfile(cfg.RenderProfilePath)
	if err != nil {
		logger.Fatal("failed to load render profile", logger.ErrorField(err))
	}

	projectRepo := repository.NewGormProjectRepository(db.GormDB)
	sceneRepo := repository.NewGormSceneRepository(db.GormDB)
	mediaRepo := repository.NewGormMediaRepository(db.GormDB)

	sessions := editor.NewManager(projectRepo, sceneRepo)

	renderer := render.NewFFmpegRenderer(cfg.FFmpegPath, profile)
	orchestrator := render.NewOrchestrator(
		projectRepo, sceneRepo, mediaRepo,
		renderer, storage.ObjectStore{}, cache.RenderLocker{},
		cfg.MinioBucket, cfg.PublicAssetBase, cfg.RenderAssetBase,
	)
	renderHub := NewRenderHub()
	orchestrator.OnProgress(renderHub.Publish)

	apiHandler := NewAPIHandler(projectRepo, sceneRepo, mediaRepo, sessions, orchestrator, renderHub, cfg)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	// projects
	router.HandleFunc("/api/projects", apiHandler.CreateProjectHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/projects", apiHandler.ListProjectsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/projects/{id}", apiHandler.GetProjectHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/projects/{id}", apiHandler.UpdateProjectHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/projects/{id}", apiHandler.DeleteProjectHandler).Methods(http.MethodDelete)

	// scenes and elements
	router.HandleFunc("/api/projects/{id}/scenes", apiHandler.CreateSceneHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/scenes/{id}", apiHandler.UpdateSceneHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/scenes/{id}", apiHandler.DeleteSceneHandler).Methods(http.MethodDelete)
	router.HandleFunc("/api/scenes/{id}/elements", apiHandler.CreateElementHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/elements/{id}", apiHandler.UpdateElementHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/elements/{id}", apiHandler.DeleteElementHandler).Methods(http.MethodDelete)

	// editing session, playback and overlay
	router.HandleFunc("/api/projects/{id}/session", apiHandler.GetSessionHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/projects/{id}/player/seek", apiHandler.SeekHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/projects/{id}/player/play", apiHandler.PlayHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/projects/{id}/player/pause", apiHandler.PauseHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/projects/{id}/player/toggle", apiHandler.TogglePlaybackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/projects/{id}/player/zoom", apiHandler.SetZoomHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/projects/{id}/player/animations", apiHandler.SetAnimationsHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/projects/{id}/select", apiHandler.SelectElementHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/projects/{id}/overlay", apiHandler.PatchOverlayHandler).Methods(http.MethodPatch)
	router.HandleFunc("/api/projects/{id}/overlay/commit", apiHandler.CommitOverlayHandler).Methods(http.MethodPost)

	// media and rendering
	router.HandleFunc("/api/projects/{id}/media", apiHandler.UploadMediaHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/projects/{id}/render", apiHandler.RenderProjectHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/projects/{id}/renders", apiHandler.ListRendersHandler).Methods(http.MethodGet)
	router.HandleFunc("/ws/projects/{id}/render", apiHandler.RenderProgressHandler)

	// stored objects, uploads and finished renders alike
	router.HandleFunc("/assets/{object:.+}", apiHandler.AssetHandler).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // renders block the request
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", logger.ErrorField(err))
	}
	logger.Info("server stopped")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Range")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
