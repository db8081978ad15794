// Package editor holds the in-process editing session: the timeline model,
// the playback cursor and the overlay edit buffer, plus the optimistic
// replication of edits to the persistence layer.
package editor

import (
	"context"
	"sync"
	"time"

	"Framecast/core/timeline"
	"Framecast/logger"
	"Framecast/model"
)

// Store abstracts the persistence collaborator a session replicates edits
// to. repository.SceneRepository satisfies it.
type Store interface {
	ListWithElements(ctx context.Context, projectID int64) ([]*model.Scene, error)
	CreateScene(ctx context.Context, scene *model.Scene) error
	UpdateScene(ctx context.Context, scene *model.Scene) error
	DeleteScene(ctx context.Context, id int64) error
	CreateElement(ctx context.Context, element *model.Element) error
	UpdateElement(ctx context.Context, element *model.Element) error
	DeleteElement(ctx context.Context, id int64) error
}

// timerHandle lets tests substitute the debounce timer.
type timerHandle interface {
	Stop() bool
}

func realTimer(d time.Duration, f func()) timerHandle {
	return time.AfterFunc(d, f)
}

// DefaultDebounce is how long the overlay waits after the last property
// edit before committing on its own.
const DefaultDebounce = 700 * time.Millisecond

const replicateTimeout = 10 * time.Second

// Session owns the editing state of one open project. All mutations are
// serialized by its mutex; the debounce timer and replication goroutines
// are the only other writers.
type Session struct {
	mu        sync.Mutex
	projectID int64
	timeline  *timeline.Timeline
	player    PlayerState
	store     Store

	overlay      *model.Element
	overlayDirty bool

	debounce      time.Duration
	debounceTimer timerHandle
	newTimer      func(time.Duration, func()) timerHandle

	// revision counts local mutations. A resync triggered by a failed
	// replication is skipped when the revision moved past the value captured
	// at replication time, so stale server state cannot clobber newer edits.
	revision uint64
}

// NewSession builds a session over a loaded timeline. store may be nil for
// detached (preview-only) sessions; edits then stay local.
func NewSession(projectID int64, tl *timeline.Timeline, store Store) *Session {
	s := &Session{
		projectID: projectID,
		timeline:  tl,
		store:     store,
		debounce:  DefaultDebounce,
		newTimer:  realTimer,
	}
	s.player.Zoom = 1
	s.player.AnimationsEnabled = true
	if scene, _ := tl.SceneAtFrame(0); scene != nil {
		s.player.CurrentSceneID = scene.ID
	}
	return s
}

// Timeline exposes the underlying timeline. Callers must not mutate it
// directly; use the session operations.
func (s *Session) Timeline() *timeline.Timeline {
	return s.timeline
}

// ProjectID returns the project this session edits.
func (s *Session) ProjectID() int64 {
	return s.projectID
}

// AddScene inserts a scene locally and replicates the creation. The next
// SceneNumber is assigned when the caller leaves it zero.
func (s *Session) AddScene(scene *model.Scene) *model.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()

	scene.ProjectID = s.projectID
	s.timeline.AddScene(scene)
	s.revision++

	s.replicateLocked(func(ctx context.Context) error {
		cp := scene.Clone()
		if err := s.store.CreateScene(ctx, cp); err != nil {
			return err
		}
		// adopt the id the database assigned to an optimistic insert
		s.mu.Lock()
		if scene.ID == 0 {
			scene.ID = cp.ID
		}
		s.mu.Unlock()
		return nil
	})
	return scene
}

// AdoptScene inserts a scene the caller already persisted, skipping
// replication.
func (s *Session) AdoptScene(scene *model.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeline.AddScene(scene)
	s.revision++
	if s.player.CurrentSceneID == 0 {
		if sc, _ := s.timeline.SceneAtFrame(s.player.Frame); sc != nil {
			s.player.CurrentSceneID = sc.ID
		}
	}
}

// AdoptElement inserts an element the caller already persisted, skipping
// replication.
func (s *Session) AdoptElement(sceneID int64, element *model.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.timeline.AddElement(sceneID, element); err != nil {
		return err
	}
	s.revision++
	return nil
}

// UpdateScene replaces mutable scene properties (duration, title, script)
// and replicates.
func (s *Session) UpdateScene(scene *model.Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.timeline.SceneByID(scene.ID)
	if stored == nil {
		return timeline.ErrSceneNotFound
	}
	stored.SceneNumber = scene.SceneNumber
	stored.DurationInSeconds = scene.DurationInSeconds
	stored.Title = scene.Title
	stored.Script = scene.Script
	s.revision++

	cp := stored.Clone()
	s.replicateLocked(func(ctx context.Context) error {
		return s.store.UpdateScene(ctx, cp)
	})
	return nil
}

// DeleteScene removes a scene and repairs the playback cursor: if the
// deleted scene was current, seek to the scene now occupying its index,
// else the previous one, else frame 0.
func (s *Session) DeleteScene(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasCurrent := s.player.CurrentSceneID == id
	idx, err := s.timeline.DeleteScene(id)
	if err != nil {
		return err
	}
	s.revision++

	switch {
	case s.timeline.SceneCount() == 0:
		s.commitLocked()
		s.clearSelectionLocked()
		s.player.Frame = 0
		s.player.CurrentSceneID = 0
	case wasCurrent && idx < s.timeline.SceneCount():
		s.seekToLocked(s.timeline.SceneOffsetFrames(idx))
	case wasCurrent:
		s.seekToLocked(s.timeline.SceneOffsetFrames(idx - 1))
	case s.player.Frame >= s.timeline.TotalFrames():
		s.seekToLocked(s.timeline.TotalFrames() - 1)
	}

	s.replicateLocked(func(ctx context.Context) error {
		return s.store.DeleteScene(ctx, id)
	})
	return nil
}

// AddElement appends an element to a scene locally and replicates.
func (s *Session) AddElement(sceneID int64, element *model.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.timeline.AddElement(sceneID, element); err != nil {
		return err
	}
	s.revision++

	s.replicateLocked(func(ctx context.Context) error {
		cp := element.Clone()
		if err := s.store.CreateElement(ctx, cp); err != nil {
			return err
		}
		s.mu.Lock()
		if element.ID == 0 {
			element.ID = cp.ID
		}
		s.mu.Unlock()
		return nil
	})
	return nil
}

// UpdateElement is the non-overlay update path (renumbering and other
// direct property changes): wholesale replace plus replication.
func (s *Session) UpdateElement(element *model.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.timeline.ReplaceElement(element); err != nil {
		return err
	}
	s.revision++

	if s.overlay != nil && s.overlay.ID == element.ID {
		// keep the buffer aligned with the model for out-of-band updates
		s.overlay = element.Clone()
		s.overlayDirty = false
	}

	cp := element.Clone()
	s.replicateLocked(func(ctx context.Context) error {
		return s.store.UpdateElement(ctx, cp)
	})
	return nil
}

// DeleteElement removes an element; if it was selected, overlay and
// selection are cleared.
func (s *Session) DeleteElement(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.timeline.DeleteElement(id); err != nil {
		return err
	}
	s.revision++

	if s.player.SelectedElementID == id {
		s.clearSelectionLocked()
	}

	s.replicateLocked(func(ctx context.Context) error {
		return s.store.DeleteElement(ctx, id)
	})
	return nil
}

// replicateElementLocked pushes a committed overlay value to the store.
func (s *Session) replicateElementLocked(element *model.Element) {
	s.revision++
	cp := element.Clone()
	s.replicateLocked(func(ctx context.Context) error {
		return s.store.UpdateElement(ctx, cp)
	})
}

// replicateLocked runs one persistence call off the session goroutine.
// There is exactly one attempt; failure triggers a full resync of the
// scene collection unless newer local edits have landed since.
func (s *Session) replicateLocked(op func(ctx context.Context) error) {
	if s.store == nil {
		return
	}
	rev := s.revision

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), replicateTimeout)
		defer cancel()

		if err := op(ctx); err != nil {
			logger.Warn("replication failed, resyncing project",
				logger.Int64("projectId", s.projectID), logger.ErrorField(err))
			s.resync(rev)
		}
	}()
}

// resync re-fetches the canonical scene list and overwrites local state,
// unless the session has moved on past rev.
func (s *Session) resync(rev uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), replicateTimeout)
	defer cancel()

	scenes, err := s.store.ListWithElements(ctx, s.projectID)
	if err != nil {
		logger.Error("resync fetch failed, local state kept",
			logger.Int64("projectId", s.projectID), logger.ErrorField(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.revision != rev {
		logger.Debug("resync skipped, local edits advanced",
			logger.Int64("projectId", s.projectID))
		return
	}

	s.timeline.ReplaceScenes(scenes)
	s.clearSelectionLocked()
	if total := s.timeline.TotalFrames(); total == 0 {
		s.player.Frame = 0
		s.player.CurrentSceneID = 0
	} else if s.player.Frame >= total {
		s.seekToLocked(total - 1)
	}
}
