package editor

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"Framecast/core/timeline"
	"Framecast/model"
)

func newTestTimeline(durations ...float64) *timeline.Timeline {
	scenes := make([]*model.Scene, len(durations))
	for i, d := range durations {
		scenes[i] = &model.Scene{
			ID:                int64(i + 1),
			SceneNumber:       i + 1,
			DurationInSeconds: d,
		}
	}
	return timeline.New(&model.Orientation{Width: 1920, Height: 1080, FPS: 30}, scenes)
}

// manualTimer lets tests fire the debounce deterministically.
type manualTimer struct {
	f       func()
	stopped bool
}

func (m *manualTimer) Stop() bool {
	m.stopped = true
	return true
}

func installManualTimer(s *Session) *struct{ last *manualTimer } {
	holder := &struct{ last *manualTimer }{}
	s.newTimer = func(d time.Duration, f func()) timerHandle {
		t := &manualTimer{f: f}
		holder.last = t
		return t
	}
	return holder
}

func strPtr(v string) *string { return &v }

func TestSeekToScene(t *testing.T) {
	s := NewSession(1, newTestTimeline(5, 3), nil)
	s.SeekToScene(1)
	if got := s.Player().Frame; got != 150 {
		t.Fatalf("frame after SeekToScene(1) = %d, want 150", got)
	}
	if got := s.Player().CurrentSceneID; got != 2 {
		t.Fatalf("current scene after SeekToScene(1) = %d, want 2", got)
	}
}

func TestSeekClamping(t *testing.T) {
	s := NewSession(1, newTestTimeline(5, 3), nil) // 240 frames total
	tests := []struct {
		frame int
		want  int
	}{
		{-10, 0},
		{0, 0},
		{239, 239},
		{240, 239},
		{9999, 239},
	}
	for _, tt := range tests {
		s.SeekTo(tt.frame)
		if got := s.Player().Frame; got != tt.want {
			t.Errorf("SeekTo(%d) clamped to %d, want %d", tt.frame, got, tt.want)
		}
	}
}

func TestSeekClearsSelectionAndEnablesAnimations(t *testing.T) {
	tl := newTestTimeline(5)
	el := &model.Element{ID: 10, Type: model.ElementTypeText}
	if err := tl.AddElement(1, el); err != nil {
		t.Fatal(err)
	}
	s := NewSession(1, tl, nil)

	s.Select(el)
	s.SetAnimationsEnabled(false)
	s.SeekTo(30)

	p := s.Player()
	if p.SelectedElementID != 0 {
		t.Fatalf("selection survived seek: %d", p.SelectedElementID)
	}
	if s.Overlay() != nil {
		t.Fatal("overlay survived seek")
	}
	if !p.AnimationsEnabled {
		t.Fatal("seek did not re-enable animations")
	}
}

func TestPlayCommitsAndClearsSelection(t *testing.T) {
	tl := newTestTimeline(5)
	el := &model.Element{ID: 10, Type: model.ElementTypeText, Content: "before"}
	if err := tl.AddElement(1, el); err != nil {
		t.Fatal(err)
	}
	s := NewSession(1, tl, nil)
	installManualTimer(s)

	s.Select(el)
	s.UpdateOverlay(ElementPatch{Content: strPtr("after")})
	s.Play()

	got, _, err := tl.FindElement(10)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "after" {
		t.Fatalf("pending edit lost on play: Content = %q", got.Content)
	}
	p := s.Player()
	if !p.Playing || p.SelectedElementID != 0 {
		t.Fatalf("player after Play = %+v", p)
	}
}

func TestCommitIdempotent(t *testing.T) {
	tl := newTestTimeline(5)
	el := &model.Element{ID: 10, Type: model.ElementTypeText, Content: "x"}
	if err := tl.AddElement(1, el); err != nil {
		t.Fatal(err)
	}
	s := NewSession(1, tl, nil)
	installManualTimer(s)

	s.Select(el)
	s.UpdateOverlay(ElementPatch{Content: strPtr("y"), PosX: floatPtr(0.25)})
	s.Commit()

	first, _, err := tl.FindElement(10)
	if err != nil {
		t.Fatal(err)
	}
	snapshot := *first

	s.Commit()

	second, _, err := tl.FindElement(10)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(snapshot, *second) {
		t.Fatalf("second commit changed the model:\nfirst  %+v\nsecond %+v", snapshot, *second)
	}
}

func floatPtr(v float64) *float64 { return &v }

// Selecting B while A has pending edits must land A's edits in the model
// before B's buffer exists.
func TestSelectionOrdering(t *testing.T) {
	tl := newTestTimeline(5)
	a := &model.Element{ID: 10, Type: model.ElementTypeText, Content: "a"}
	b := &model.Element{ID: 11, Type: model.ElementTypeText, Content: "b"}
	if err := tl.AddElement(1, a); err != nil {
		t.Fatal(err)
	}
	if err := tl.AddElement(1, b); err != nil {
		t.Fatal(err)
	}
	s := NewSession(1, tl, nil)
	installManualTimer(s)

	s.Select(a)
	s.UpdateOverlay(ElementPatch{Content: strPtr("a-edited")})
	s.Select(b)

	gotA, _, err := tl.FindElement(10)
	if err != nil {
		t.Fatal(err)
	}
	if gotA.Content != "a-edited" {
		t.Fatalf("A's edit missing after selecting B: %q", gotA.Content)
	}
	ov := s.Overlay()
	if ov == nil || ov.ID != 11 {
		t.Fatalf("overlay after selecting B = %+v, want element 11", ov)
	}
}

func TestUpdateOverlayDoesNotTouchModel(t *testing.T) {
	tl := newTestTimeline(5)
	el := &model.Element{ID: 10, Type: model.ElementTypeText, Content: "canonical"}
	if err := tl.AddElement(1, el); err != nil {
		t.Fatal(err)
	}
	s := NewSession(1, tl, nil)
	installManualTimer(s)

	s.Select(el)
	s.UpdateOverlay(ElementPatch{Content: strPtr("buffered")})

	got, _, err := tl.FindElement(10)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "canonical" {
		t.Fatalf("overlay edit leaked into model: %q", got.Content)
	}
}

func TestDebounceCommit(t *testing.T) {
	tl := newTestTimeline(5)
	el := &model.Element{ID: 10, Type: model.ElementTypeText, Content: "x"}
	if err := tl.AddElement(1, el); err != nil {
		t.Fatal(err)
	}
	s := NewSession(1, tl, nil)
	holder := installManualTimer(s)

	s.Select(el)
	s.UpdateOverlay(ElementPatch{Content: strPtr("y")})
	first := holder.last
	s.UpdateOverlay(ElementPatch{Content: strPtr("z")})
	if !first.stopped {
		t.Fatal("second edit did not cancel the first debounce timer")
	}

	// fire the pending timer as the scheduler would
	holder.last.f()

	got, _, err := tl.FindElement(10)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "z" {
		t.Fatalf("debounce commit missing: %q", got.Content)
	}
}

func TestDeleteSceneReseeks(t *testing.T) {
	tests := []struct {
		name      string
		durations []float64
		seekScene int
		deleteID  int64
		wantFrame int
	}{
		// current scene deleted, a scene now occupies the same index
		{"middle of three", []float64{5, 3, 2}, 1, 2, 150},
		// current scene deleted, fall back to the previous index
		{"last of three", []float64{5, 3, 2}, 2, 3, 150},
		{"last of two", []float64{5, 3}, 1, 2, 0},
		// only scene deleted
		{"only scene", []float64{5}, 0, 1, 0},
		{"first of many", []float64{1, 1, 1, 1, 1}, 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(1, newTestTimeline(tt.durations...), nil)
			s.SeekToScene(tt.seekScene)
			if err := s.DeleteScene(tt.deleteID); err != nil {
				t.Fatalf("DeleteScene: %v", err)
			}
			p := s.Player()
			if p.Frame != tt.wantFrame {
				t.Fatalf("frame after delete = %d, want %d", p.Frame, tt.wantFrame)
			}
			if total := s.Timeline().TotalFrames(); total > 0 && p.Frame >= total {
				t.Fatalf("frame %d outside [0, %d)", p.Frame, total)
			}
		})
	}
}

func TestDeleteSceneNotCurrentKeepsCursor(t *testing.T) {
	s := NewSession(1, newTestTimeline(5, 3, 2), nil)
	s.SeekTo(30) // inside scene 1
	if err := s.DeleteScene(3); err != nil {
		t.Fatal(err)
	}
	if got := s.Player().Frame; got != 30 {
		t.Fatalf("cursor moved on non-current delete: %d", got)
	}
}

// fakeStore records replication calls and can fail updates.
type fakeStore struct {
	mu         sync.Mutex
	failUpdate bool
	updates    int
	canonical  []*model.Scene
	listCh     chan struct{}
}

func (f *fakeStore) ListWithElements(ctx context.Context, projectID int64) ([]*model.Scene, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listCh != nil {
		select {
		case f.listCh <- struct{}{}:
		default:
		}
	}
	out := make([]*model.Scene, len(f.canonical))
	for i, s := range f.canonical {
		out[i] = s.Clone()
	}
	return out, nil
}

func (f *fakeStore) CreateScene(ctx context.Context, scene *model.Scene) error { return nil }
func (f *fakeStore) UpdateScene(ctx context.Context, scene *model.Scene) error { return nil }
func (f *fakeStore) DeleteScene(ctx context.Context, id int64) error           { return nil }
func (f *fakeStore) CreateElement(ctx context.Context, el *model.Element) error {
	return nil
}

func (f *fakeStore) UpdateElement(ctx context.Context, el *model.Element) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.failUpdate {
		return fmt.Errorf("simulated persistence failure")
	}
	return nil
}

func (f *fakeStore) DeleteElement(ctx context.Context, id int64) error { return nil }

func TestReplicationFailureResyncs(t *testing.T) {
	canonical := []*model.Scene{{
		ID: 1, SceneNumber: 1, DurationInSeconds: 5,
		Elements: []*model.Element{{ID: 10, SceneID: 1, ElementNumber: 1, Content: "server-truth"}},
	}}
	store := &fakeStore{failUpdate: true, canonical: canonical, listCh: make(chan struct{}, 1)}

	tl := newTestTimeline(5)
	el := &model.Element{ID: 10, Type: model.ElementTypeText, Content: "local"}
	if err := tl.AddElement(1, el); err != nil {
		t.Fatal(err)
	}
	s := NewSession(1, tl, store)
	installManualTimer(s)

	s.Select(el)
	s.UpdateOverlay(ElementPatch{Content: strPtr("doomed-edit")})
	s.Commit()

	select {
	case <-store.listCh:
	case <-time.After(2 * time.Second):
		t.Fatal("resync never fetched canonical state")
	}

	// resync overwrites local state after the fetch; poll briefly
	deadline := time.Now().Add(2 * time.Second)
	for {
		got, _, err := s.Timeline().FindElement(10)
		if err == nil && got.Content == "server-truth" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("local state not overwritten by resync")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
