package editor

import (
	"context"
	"sync"

	"Framecast/core/timeline"
	"Framecast/model"
)

// OrientationLoader is the slice of the project repository the manager
// needs to open a session.
type OrientationLoader interface {
	GetOrientation(ctx context.Context, projectID int64) (*model.Orientation, error)
}

// Manager hands out one editing session per open project. Sessions are
// process-local and rebuilt from the store on first access after a restart.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	projects OrientationLoader
	store    Store
}

// NewManager creates a session manager over the given collaborators.
func NewManager(projects OrientationLoader, store Store) *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
		projects: projects,
		store:    store,
	}
}

// Get returns the open session for a project, loading the timeline from
// the store when the project is opened for the first time.
func (m *Manager) Get(ctx context.Context, projectID int64) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[projectID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	orientation, err := m.projects.GetOrientation(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if orientation == nil {
		return nil, timeline.ErrSceneNotFound
	}
	scenes, err := m.store.ListWithElements(ctx, projectID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[projectID]; ok {
		// lost the load race, keep the first session
		return s, nil
	}
	s := NewSession(projectID, timeline.New(orientation, scenes), m.store)
	m.sessions[projectID] = s
	return s, nil
}

// Peek returns the session if one is already open, without loading.
func (m *Manager) Peek(projectID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[projectID]
}

// Drop discards the session of a project, e.g. after project deletion.
func (m *Manager) Drop(projectID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, projectID)
}
