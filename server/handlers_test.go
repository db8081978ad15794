package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"Framecast/core/editor"
	"Framecast/core/render"
	"Framecast/core/timeline"
	"Framecast/model"
)

type fakeProjectRepo struct {
	created     []*model.Project
	orientation *model.Orientation
}

func (f *fakeProjectRepo) Create(ctx context.Context, p *model.Project) error {
	p.ID = int64(len(f.created) + 1)
	f.created = append(f.created, p)
	return nil
}
func (f *fakeProjectRepo) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	for _, p := range f.created {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}
func (f *fakeProjectRepo) List(ctx context.Context) ([]*model.Project, error) {
	return f.created, nil
}
func (f *fakeProjectRepo) Update(ctx context.Context, p *model.Project) error { return nil }
func (f *fakeProjectRepo) SoftDelete(ctx context.Context, id int64) error     { return nil }
func (f *fakeProjectRepo) GetOrientation(ctx context.Context, projectID int64) (*model.Orientation, error) {
	return f.orientation, nil
}
func (f *fakeProjectRepo) UpdateOrientation(ctx context.Context, o *model.Orientation) error {
	f.orientation = o
	return nil
}

type fakeSceneRepo struct {
	scenes []*model.Scene
}

func (f *fakeSceneRepo) ListWithElements(ctx context.Context, projectID int64) ([]*model.Scene, error) {
	return f.scenes, nil
}
func (f *fakeSceneRepo) GetScene(ctx context.Context, id int64) (*model.Scene, error) {
	for _, s := range f.scenes {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}
func (f *fakeSceneRepo) CreateScene(ctx context.Context, s *model.Scene) error {
	s.ID = int64(len(f.scenes) + 1)
	f.scenes = append(f.scenes, s)
	return nil
}
func (f *fakeSceneRepo) UpdateScene(ctx context.Context, s *model.Scene) error      { return nil }
func (f *fakeSceneRepo) DeleteScene(ctx context.Context, id int64) error            { return nil }
func (f *fakeSceneRepo) GetElement(ctx context.Context, id int64) (*model.Element, error) {
	return nil, nil
}
func (f *fakeSceneRepo) CreateElement(ctx context.Context, el *model.Element) error { return nil }
func (f *fakeSceneRepo) UpdateElement(ctx context.Context, el *model.Element) error { return nil }
func (f *fakeSceneRepo) DeleteElement(ctx context.Context, id int64) error          { return nil }

func newTestHandler(projects *fakeProjectRepo, scenes *fakeSceneRepo) *APIHandler {
	return &APIHandler{
		projectRepo: projects,
		sceneRepo:   scenes,
		sessions:    editor.NewManager(projects, scenes),
	}
}

func TestCreateProjectValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"title":"Demo","orientation":{"width":1920,"height":1080,"fps":30}}`, http.StatusCreated},
		{"blank title", `{"title":"  ","orientation":{"width":1920,"height":1080,"fps":30}}`, http.StatusBadRequest},
		{"zero width", `{"title":"Demo","orientation":{"width":0,"height":1080,"fps":30}}`, http.StatusBadRequest},
		{"zero fps", `{"title":"Demo","orientation":{"width":1920,"height":1080,"fps":0}}`, http.StatusBadRequest},
		{"broken json", `{"title":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&fakeProjectRepo{}, &fakeSceneRepo{})
			req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			h.CreateProjectHandler(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCreateSceneAssignsNumber(t *testing.T) {
	projects := &fakeProjectRepo{orientation: &model.Orientation{ProjectID: 1, Width: 1920, Height: 1080, FPS: 30}}
	scenes := &fakeSceneRepo{scenes: []*model.Scene{
		{ID: 1, ProjectID: 1, SceneNumber: 1, DurationInSeconds: 5},
	}}
	h := newTestHandler(projects, scenes)

	body := `{"durationInSeconds":3,"title":"Second"}`
	req := httptest.NewRequest(http.MethodPost, "/api/projects/1/scenes", bytes.NewBufferString(body))
	req = mux.SetURLVars(req, map[string]string{"id": "1"})
	rec := httptest.NewRecorder()
	h.CreateSceneHandler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created model.Scene
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.SceneNumber != 2 {
		t.Errorf("sceneNumber = %d, want 2", created.SceneNumber)
	}
	if projects.orientation.DurationInSeconds != 8 {
		t.Errorf("cached duration = %v, want 8", projects.orientation.DurationInSeconds)
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{timeline.ErrSceneNotFound, http.StatusNotFound},
		{timeline.ErrElementNotFound, http.StatusNotFound},
		{render.ErrProjectNotFound, http.StatusNotFound},
		{render.ErrRenderInProgress, http.StatusConflict},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusForError(tt.err); got != tt.want {
			t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
