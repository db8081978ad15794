package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"Framecast/cache"
	"Framecast/config"
	"Framecast/core/render"
	"Framecast/db"
	"Framecast/logger"
	"Framecast/repository"
	"Framecast/storage"
)

var renderCmd = &cobra.Command{
	Use:   "render <project-id>",
	Short: "Render a project from the command line",
	Long:  `Run the full render pipeline for one project and print the resulting artifact, without starting the HTTP server.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			log.Fatalf("invalid project id %q", args[0])
		}

		cfg := config.Load()
		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogPath,
		})

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("failed to initialize MinIO: %v", err)
		}
		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.CloseGormDB()
		if err := db.ConnectRedis(cfg); err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		defer db.CloseRedis()

		profile, err := config.LoadRenderProfile(cfg.RenderProfilePath)
		if err != nil {
			log.Fatalf("failed to load render profile: %v", err)
		}

		projectRepo := repository.NewGormProjectRepository(db.GormDB)
		sceneRepo := repository.NewGormSceneRepository(db.GormDB)
		mediaRepo := repository.NewGormMediaRepository(db.GormDB)

		orchestrator := render.NewOrchestrator(
			projectRepo, sceneRepo, mediaRepo,
			render.NewFFmpegRenderer(cfg.FFmpegPath, profile),
			storage.ObjectStore{}, cache.RenderLocker{},
			cfg.MinioBucket, cfg.PublicAssetBase, cfg.RenderAssetBase,
		)
		orchestrator.OnProgress(func(projectID int64, state render.State, detail string) {
			if detail != "" {
				fmt.Printf("[%s] %s\n", state, detail)
			} else {
				fmt.Printf("[%s]\n", state)
			}
		})

		artifact, err := orchestrator.Render(context.Background(), projectID)
		if err != nil {
			log.Fatalf("render failed: %v", err)
		}
		fmt.Printf("rendered artifact %d: %s (asset %d)\n", artifact.ID, artifact.Title, artifact.MediaAssetID)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
