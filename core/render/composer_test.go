package render

import (
	"context"
	"strings"
	"testing"

	"Framecast/config"
	"Framecast/model"
)

func TestRewriteAssetRefs(t *testing.T) {
	publicBase := "http://localhost:8080/assets/"
	renderBase := "http://127.0.0.1:8080/assets/"

	scenes := []*model.Scene{{
		ID: 1, SceneNumber: 1, DurationInSeconds: 5,
		Elements: []*model.Element{
			{ID: 10, Type: model.ElementTypeMedia, MediaSource: publicBase + "uploads/clip.mp4"},
			{ID: 11, Type: model.ElementTypeMedia, MediaSource: "https://elsewhere.example/clip.mp4"},
			{ID: 12, Type: model.ElementTypeText, Content: "hello"},
		},
	}}

	rewritten := RewriteAssetRefs(scenes, publicBase, renderBase)

	if got := rewritten[0].Elements[0].MediaSource; got != renderBase+"uploads/clip.mp4" {
		t.Fatalf("rewritten source = %q", got)
	}
	if got := rewritten[0].Elements[1].MediaSource; got != "https://elsewhere.example/clip.mp4" {
		t.Fatalf("foreign source touched: %q", got)
	}
	// the committed model must not be mutated
	if got := scenes[0].Elements[0].MediaSource; got != publicBase+"uploads/clip.mp4" {
		t.Fatalf("original mutated: %q", got)
	}
}

func TestInputTotals(t *testing.T) {
	input := &Input{
		Orientation: &model.Orientation{Width: 1920, Height: 1080, FPS: 30},
		Scenes: []*model.Scene{
			{SceneNumber: 1, DurationInSeconds: 5},
			{SceneNumber: 2, DurationInSeconds: 3},
			{SceneNumber: 3, DurationInSeconds: 2},
		},
	}
	if got := input.TotalFrames(); got != 300 {
		t.Fatalf("TotalFrames = %d, want 300", got)
	}
	if got := input.TotalDurationSeconds(); got != 10 {
		t.Fatalf("TotalDurationSeconds = %v, want 10", got)
	}
}

func TestBuildInputValidation(t *testing.T) {
	if _, err := BuildInput(nil, nil); err == nil {
		t.Fatal("nil orientation accepted")
	}
	if _, err := BuildInput(&model.Orientation{FPS: 0}, nil); err == nil {
		t.Fatal("zero fps accepted")
	}
}

func TestResolveCompositionRejectsUnknownID(t *testing.T) {
	profile, _ := config.LoadRenderProfile("")
	r := NewFFmpegRenderer("ffmpeg", profile)
	input := &Input{Orientation: &model.Orientation{Width: 1920, Height: 1080, FPS: 30}}

	if _, err := r.ResolveComposition(context.Background(), "other-comp", input); err == nil {
		t.Fatal("unknown composition id accepted")
	}
	comp, err := r.ResolveComposition(context.Background(), CompositionID, input)
	if err != nil {
		t.Fatalf("ResolveComposition: %v", err)
	}
	if comp.Width != 1920 || comp.FPS != 30 {
		t.Fatalf("composition = %+v", comp)
	}
}

func TestBuildSceneFilter(t *testing.T) {
	comp := &Composition{ID: CompositionID, Width: 1920, Height: 1080, FPS: 30}
	scene := &model.Scene{
		SceneNumber: 1, DurationInSeconds: 5,
		Elements: []*model.Element{{
			ID: 10, ElementNumber: 1, Type: model.ElementTypeText,
			FromSecond: 1, ToSecond: 4, Content: "<p>hello</p>",
			EnterAnimation: "FadeIn",
		}},
	}

	graph := buildSceneFilter(comp, scene)

	for _, want := range []string{
		"drawtext=text='hello'",
		"enable='between(t,1.000,4.000)'",
		"fade=t=in:st=1.000:d=2.000:alpha=1",
		"[out]",
	} {
		if !strings.Contains(graph, want) {
			t.Errorf("filter graph missing %q:\n%s", want, graph)
		}
	}
}

func TestBuildSceneFilterStaticWhenNoAnimations(t *testing.T) {
	comp := &Composition{ID: CompositionID, Width: 1920, Height: 1080, FPS: 30}
	scene := &model.Scene{
		SceneNumber: 1, DurationInSeconds: 5,
		Elements: []*model.Element{{
			ID: 10, ElementNumber: 1, Type: model.ElementTypeText,
			FromSecond: 0, ToSecond: model.UntilSceneEnd, Content: "plain",
		}},
	}

	graph := buildSceneFilter(comp, scene)
	if strings.Contains(graph, "fade=") || strings.Contains(graph, "zoompan=") {
		t.Fatalf("animation filters present without animations:\n%s", graph)
	}
	// sentinel end time resolves to the scene duration
	if !strings.Contains(graph, "enable='between(t,0.000,5.000)'") {
		t.Fatalf("sentinel end not resolved:\n%s", graph)
	}
}
