package render

import (
	"context"
	"fmt"
	"strings"

	"Framecast/core/timeline"
	"Framecast/model"
)

// CompositionID is the fixed composition every project render resolves.
const CompositionID = "framecast-main"

// Input is the composition input handed to the renderer: the committed
// scene list plus the project orientation.
type Input struct {
	Orientation *model.Orientation `json:"orientation"`
	Scenes      []*model.Scene     `json:"scenes"`
}

// TotalDurationSeconds sums the scene durations of the input.
func (in *Input) TotalDurationSeconds() float64 {
	var total float64
	for _, s := range in.Scenes {
		total += s.DurationInSeconds
	}
	return total
}

// TotalFrames is the per-scene rounded frame sum at the input's frame rate.
func (in *Input) TotalFrames() int {
	total := 0
	for _, s := range in.Scenes {
		total += timeline.FramesFromSeconds(s.DurationInSeconds, in.Orientation.FPS)
	}
	return total
}

// Composition is the renderer's resolved description of what to draw.
type Composition struct {
	ID             string
	Width          int
	Height         int
	FPS            int
	DurationFrames int
}

// Renderer is the headless rendering capability the orchestrator delegates
// to.
type Renderer interface {
	ResolveComposition(ctx context.Context, id string, input *Input) (*Composition, error)
	RenderComposition(ctx context.Context, comp *Composition, input *Input, outputPath string) error
}

// RewriteAssetRefs clones the scene list and rewrites element media
// references from the editing-time asset base to the render-context base.
// The render step runs outside the interactive session's network context,
// so editing-time URLs are not reachable from it; only the prefix changes,
// never the object name.
func RewriteAssetRefs(scenes []*model.Scene, publicBase, renderBase string) []*model.Scene {
	out := make([]*model.Scene, len(scenes))
	for i, s := range scenes {
		cp := s.Clone()
		for _, el := range cp.Elements {
			if el.MediaSource != "" && strings.HasPrefix(el.MediaSource, publicBase) {
				el.MediaSource = renderBase + strings.TrimPrefix(el.MediaSource, publicBase)
			}
		}
		out[i] = cp
	}
	return out
}

// BuildInput assembles the composition input for a project.
func BuildInput(orientation *model.Orientation, scenes []*model.Scene) (*Input, error) {
	if orientation == nil {
		return nil, fmt.Errorf("project has no orientation")
	}
	if orientation.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", orientation.FPS)
	}
	return &Input{Orientation: orientation, Scenes: scenes}, nil
}
