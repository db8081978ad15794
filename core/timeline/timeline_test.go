package timeline

import (
	"errors"
	"testing"

	"Framecast/model"
)

func testOrientation(fps int) *model.Orientation {
	return &model.Orientation{Width: 1920, Height: 1080, FPS: fps}
}

func testScenes(durations ...float64) []*model.Scene {
	scenes := make([]*model.Scene, len(durations))
	for i, d := range durations {
		scenes[i] = &model.Scene{
			ID:                int64(i + 1),
			SceneNumber:       i + 1,
			DurationInSeconds: d,
		}
	}
	return scenes
}

func TestTotalFrames(t *testing.T) {
	tl := New(testOrientation(30), testScenes(5, 3, 2))
	if got := tl.TotalFrames(); got != 300 {
		t.Fatalf("TotalFrames = %d, want 300", got)
	}
	if got := tl.TotalDurationSeconds(); got != 10 {
		t.Fatalf("TotalDurationSeconds = %v, want 10", got)
	}
}

func TestSceneOffsetFrames(t *testing.T) {
	tl := New(testOrientation(30), testScenes(5, 3, 2))
	tests := []struct {
		index int
		want  int
	}{
		{0, 0},
		{1, 150},
		{2, 240},
		{3, 300}, // one past the end is the total
	}
	for _, tt := range tests {
		if got := tl.SceneOffsetFrames(tt.index); got != tt.want {
			t.Errorf("SceneOffsetFrames(%d) = %d, want %d", tt.index, got, tt.want)
		}
	}
}

func TestSceneAtFrame(t *testing.T) {
	tl := New(testOrientation(30), testScenes(5, 3, 2))
	tests := []struct {
		name      string
		frame     int
		wantIndex int
	}{
		{"first frame", 0, 0},
		{"inside first scene", 100, 0},
		{"last frame of first scene", 149, 0},
		{"boundary belongs to starting scene", 150, 1},
		{"inside second scene", 200, 1},
		{"second boundary", 240, 2},
		{"last frame", 299, 2},
		{"one past the end", 300, -1},
		{"past the end", 301, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, idx := tl.SceneAtFrame(tt.frame)
			if idx != tt.wantIndex {
				t.Fatalf("SceneAtFrame(%d) index = %d, want %d", tt.frame, idx, tt.wantIndex)
			}
		})
	}
}

func TestSceneAtFrameEmpty(t *testing.T) {
	tl := New(testOrientation(30), nil)
	if s, idx := tl.SceneAtFrame(0); s != nil || idx != -1 {
		t.Fatalf("SceneAtFrame on empty timeline = (%v, %d), want (nil, -1)", s, idx)
	}
}

func TestAddSceneAssignsNextNumber(t *testing.T) {
	tl := New(testOrientation(30), testScenes(5, 3))
	added := tl.AddScene(&model.Scene{ID: 99, DurationInSeconds: 2})
	if added.SceneNumber != 3 {
		t.Fatalf("assigned SceneNumber = %d, want 3", added.SceneNumber)
	}
	if tl.SceneCount() != 3 {
		t.Fatalf("SceneCount = %d, want 3", tl.SceneCount())
	}
	// explicit numbers are respected and sorted into place
	tl.AddScene(&model.Scene{ID: 100, SceneNumber: 1, DurationInSeconds: 1})
	if tl.Scenes()[0].ID != 100 && tl.Scenes()[0].SceneNumber != 1 {
		t.Fatalf("scene with explicit number 1 not sorted first")
	}
}

func TestDeleteScene(t *testing.T) {
	tl := New(testOrientation(30), testScenes(5, 3, 2))
	idx, err := tl.DeleteScene(2)
	if err != nil {
		t.Fatalf("DeleteScene: %v", err)
	}
	if idx != 1 {
		t.Fatalf("deleted index = %d, want 1", idx)
	}
	if tl.SceneCount() != 2 {
		t.Fatalf("SceneCount = %d, want 2", tl.SceneCount())
	}

	if _, err := tl.DeleteScene(42); !errors.Is(err, ErrSceneNotFound) {
		t.Fatalf("deleting unknown scene: err = %v, want ErrSceneNotFound", err)
	}
}

func TestAddElementAssignsNumber(t *testing.T) {
	tl := New(testOrientation(30), testScenes(5))
	if err := tl.AddElement(1, &model.Element{ID: 10, Type: model.ElementTypeText}); err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	if err := tl.AddElement(1, &model.Element{ID: 11, Type: model.ElementTypeText}); err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	scene := tl.SceneByID(1)
	if scene.Elements[0].ElementNumber != 1 || scene.Elements[1].ElementNumber != 2 {
		t.Fatalf("element numbers = %d, %d, want 1, 2",
			scene.Elements[0].ElementNumber, scene.Elements[1].ElementNumber)
	}

	if err := tl.AddElement(42, &model.Element{ID: 12}); !errors.Is(err, ErrSceneNotFound) {
		t.Fatalf("adding to unknown scene: err = %v, want ErrSceneNotFound", err)
	}
}

func TestReplaceElement(t *testing.T) {
	tl := New(testOrientation(30), testScenes(5))
	el := &model.Element{ID: 10, Type: model.ElementTypeText, Content: "before"}
	if err := tl.AddElement(1, el); err != nil {
		t.Fatalf("AddElement: %v", err)
	}

	replacement := el.Clone()
	replacement.Content = "after"
	if err := tl.ReplaceElement(replacement); err != nil {
		t.Fatalf("ReplaceElement: %v", err)
	}

	got, _, err := tl.FindElement(10)
	if err != nil {
		t.Fatalf("FindElement: %v", err)
	}
	if got.Content != "after" {
		t.Fatalf("Content = %q, want %q", got.Content, "after")
	}
	if got != replacement {
		t.Fatal("ReplaceElement must swap the stored pointer, not merge")
	}

	missing := &model.Element{ID: 99, SceneID: 1}
	if err := tl.ReplaceElement(missing); !errors.Is(err, ErrElementNotFound) {
		t.Fatalf("replacing unknown element: err = %v, want ErrElementNotFound", err)
	}
}

func TestDeleteElement(t *testing.T) {
	tl := New(testOrientation(30), testScenes(5))
	if err := tl.AddElement(1, &model.Element{ID: 10}); err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	if err := tl.DeleteElement(10); err != nil {
		t.Fatalf("DeleteElement: %v", err)
	}
	if err := tl.DeleteElement(10); !errors.Is(err, ErrElementNotFound) {
		t.Fatalf("second delete: err = %v, want ErrElementNotFound", err)
	}
}

func TestEffectiveToSecondSentinel(t *testing.T) {
	durations := []float64{0.5, 1, 5, 12.5, 3600}
	for _, d := range durations {
		el := &model.Element{FromSecond: 0, ToSecond: model.UntilSceneEnd}
		if got := el.EffectiveToSecond(d); got != d {
			t.Errorf("EffectiveToSecond with sentinel, scene %vs = %v, want %v", d, got, d)
		}
	}
	el := &model.Element{FromSecond: 1, ToSecond: 3}
	if got := el.EffectiveToSecond(5); got != 3 {
		t.Errorf("EffectiveToSecond explicit = %v, want 3", got)
	}
}
