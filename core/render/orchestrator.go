package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"Framecast/logger"
	"Framecast/model"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// State is the orchestrator's position in the render pipeline.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateResolving
	StateRendering
	StatePersisting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateResolving:
		return "resolving"
	case StateRendering:
		return "rendering"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrRenderInProgress means another render of the same project holds the
	// per-project lock.
	ErrRenderInProgress = errors.New("render: project render already in progress")
	// ErrProjectNotFound means the project or its orientation does not exist.
	ErrProjectNotFound = errors.New("render: project not found")
)

// Collaborator interfaces, satisfied by the repository, storage and cache
// packages. The orchestrator never talks to gorm, MinIO or Redis directly.

type ProjectLoader interface {
	GetOrientation(ctx context.Context, projectID int64) (*model.Orientation, error)
}

type SceneLoader interface {
	ListWithElements(ctx context.Context, projectID int64) ([]*model.Scene, error)
}

type ArtifactRecorder interface {
	CreateMediaAsset(ctx context.Context, asset *model.MediaAsset) error
	CreateRenderedArtifact(ctx context.Context, artifact *model.RenderedArtifact) error
}

type ObjectStore interface {
	UploadFile(ctx context.Context, bucket, objectName, filePath, contentType string) error
}

type Locker interface {
	AcquireRenderLock(ctx context.Context, projectID int64) (bool, error)
	ReleaseRenderLock(ctx context.Context, projectID int64) error
}

// ProgressFunc observes state transitions; detail is human-readable.
type ProgressFunc func(projectID int64, state State, detail string)

// Orchestrator drives the render pipeline:
// Idle -> Loading -> Resolving -> Rendering -> Persisting -> Done | Failed.
// One Render call runs the steps sequentially; concurrent renders of the
// same project are serialized by the per-project lock, the second caller
// getting ErrRenderInProgress.
type Orchestrator struct {
	projects ProjectLoader
	scenes   SceneLoader
	media    ArtifactRecorder
	renderer Renderer
	store    ObjectStore
	locker   Locker

	bucket          string
	publicAssetBase string
	renderAssetBase string
	workDir         string

	onProgress ProgressFunc
}

// NewOrchestrator wires an orchestrator from its collaborators.
func NewOrchestrator(
	projects ProjectLoader,
	scenes SceneLoader,
	media ArtifactRecorder,
	renderer Renderer,
	store ObjectStore,
	locker Locker,
	bucket, publicAssetBase, renderAssetBase string,
) *Orchestrator {
	return &Orchestrator{
		projects:        projects,
		scenes:          scenes,
		media:           media,
		renderer:        renderer,
		store:           store,
		locker:          locker,
		bucket:          bucket,
		publicAssetBase: publicAssetBase,
		renderAssetBase: renderAssetBase,
		workDir:         os.TempDir(),
	}
}

// OnProgress registers a transition observer. Must be set before Render.
func (o *Orchestrator) OnProgress(fn ProgressFunc) {
	o.onProgress = fn
}

func (o *Orchestrator) progress(projectID int64, state State, detail string) {
	logger.Info("render state",
		logger.Int64("projectId", projectID),
		logger.String("state", state.String()),
		logger.String("detail", detail))
	if o.onProgress != nil {
		o.onProgress(projectID, state, detail)
	}
}

// Render runs the full pipeline for one project and returns the recorded
// artifact. The first error in any step fails the attempt as a unit: a
// failed upload writes no rows; a failed row write after upload leaves the
// uploaded object orphaned, which is logged, not repaired.
func (o *Orchestrator) Render(ctx context.Context, projectID int64) (*model.RenderedArtifact, error) {
	if o.locker != nil {
		ok, err := o.locker.AcquireRenderLock(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("render lock: %w", err)
		}
		if !ok {
			return nil, ErrRenderInProgress
		}
		defer func() {
			if err := o.locker.ReleaseRenderLock(context.Background(), projectID); err != nil {
				logger.Warn("render lock release failed",
					logger.Int64("projectId", projectID), logger.ErrorField(err))
			}
		}()
	}

	artifact, err := o.run(ctx, projectID)
	if err != nil {
		o.progress(projectID, StateFailed, err.Error())
		return nil, err
	}
	o.progress(projectID, StateDone, artifact.Title)
	return artifact, nil
}

func (o *Orchestrator) run(ctx context.Context, projectID int64) (*model.RenderedArtifact, error) {
	// Loading
	o.progress(projectID, StateLoading, "loading project")
	orientation, err := o.projects.GetOrientation(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load orientation: %w", err)
	}
	if orientation == nil {
		return nil, ErrProjectNotFound
	}
	scenes, err := o.scenes.ListWithElements(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load scenes: %w", err)
	}

	// Resolving
	o.progress(projectID, StateResolving, "resolving composition input")
	rewritten := RewriteAssetRefs(scenes, o.publicAssetBase, o.renderAssetBase)
	input, err := BuildInput(orientation, rewritten)
	if err != nil {
		return nil, fmt.Errorf("build input: %w", err)
	}

	// Rendering
	o.progress(projectID, StateRendering, "rendering composition")
	o.logResources(projectID)

	comp, err := o.renderer.ResolveComposition(ctx, CompositionID, input)
	if err != nil {
		return nil, fmt.Errorf("resolve composition: %w", err)
	}

	fileName := fmt.Sprintf("render_%s.mp4", uuid.New().String())
	outputPath := filepath.Join(o.workDir, fileName)
	defer os.Remove(outputPath)

	started := time.Now()
	if err := o.renderer.RenderComposition(ctx, comp, input, outputPath); err != nil {
		return nil, fmt.Errorf("render composition: %w", err)
	}
	logger.Info("render finished",
		logger.Int64("projectId", projectID),
		logger.String("file", fileName),
		logger.Duration("took", time.Since(started)))

	// Persisting
	o.progress(projectID, StatePersisting, "storing artifact")
	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, fmt.Errorf("stat render output: %w", err)
	}

	objectName := "renders/" + fileName
	if err := o.store.UploadFile(ctx, o.bucket, objectName, outputPath, "video/mp4"); err != nil {
		return nil, fmt.Errorf("upload artifact: %w", err)
	}

	asset := &model.MediaAsset{
		ProjectID:         projectID,
		FileName:          objectName,
		Type:              model.MediaAssetTypeRender,
		Size:              info.Size(),
		DurationInSeconds: input.TotalDurationSeconds(),
	}
	if err := o.media.CreateMediaAsset(ctx, asset); err != nil {
		logger.Warn("uploaded artifact orphaned: media asset row failed",
			logger.String("object", objectName), logger.ErrorField(err))
		return nil, fmt.Errorf("record media asset: %w", err)
	}

	artifact := &model.RenderedArtifact{
		ProjectID:    projectID,
		MediaAssetID: asset.ID,
		Title:        fmt.Sprintf("Render of Project %d at %s", projectID, time.Now().Format(time.RFC3339)),
	}
	if err := o.media.CreateRenderedArtifact(ctx, artifact); err != nil {
		logger.Warn("uploaded artifact orphaned: artifact row failed",
			logger.String("object", objectName), logger.ErrorField(err))
		return nil, fmt.Errorf("record rendered artifact: %w", err)
	}

	return artifact, nil
}

// logResources snapshots memory and CPU before the heavy render step.
func (o *Orchestrator) logResources(projectID int64) {
	if vm, err := mem.VirtualMemory(); err == nil {
		logger.Info("render host memory",
			logger.Int64("projectId", projectID),
			logger.Int64("availableMB", int64(vm.Available/1024/1024)),
			logger.Float64("usedPercent", vm.UsedPercent))
	}
	if counts, err := cpu.Counts(true); err == nil {
		logger.Info("render host cpu",
			logger.Int64("projectId", projectID),
			logger.Int("logicalCores", counts))
	}
}
