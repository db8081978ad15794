package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"Framecast/config"
	"Framecast/core/animation"
	"Framecast/logger"
	"Framecast/model"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// FFmpegRenderer is the headless renderer: every scene becomes an ffmpeg
// filtergraph rendered to its own segment, segments render in parallel and
// a concat pass produces the final file.
type FFmpegRenderer struct {
	ffmpegPath string
	profile    *config.RenderProfile
}

// NewFFmpegRenderer creates a renderer using the given ffmpeg binary and
// encoder profile.
func NewFFmpegRenderer(ffmpegPath string, profile *config.RenderProfile) *FFmpegRenderer {
	return &FFmpegRenderer{ffmpegPath: ffmpegPath, profile: profile}
}

// ResolveComposition validates the composition id and derives the output
// geometry and duration from the input.
func (r *FFmpegRenderer) ResolveComposition(ctx context.Context, id string, input *Input) (*Composition, error) {
	if id != CompositionID {
		return nil, fmt.Errorf("unknown composition %q", id)
	}
	if input.Orientation.Width <= 0 || input.Orientation.Height <= 0 {
		return nil, fmt.Errorf("invalid orientation %dx%d", input.Orientation.Width, input.Orientation.Height)
	}
	return &Composition{
		ID:             id,
		Width:          input.Orientation.Width,
		Height:         input.Orientation.Height,
		FPS:            input.Orientation.FPS,
		DurationFrames: input.TotalFrames(),
	}, nil
}

// RenderComposition renders every scene to a segment and concatenates them
// into outputPath.
func (r *FFmpegRenderer) RenderComposition(ctx context.Context, comp *Composition, input *Input, outputPath string) error {
	if len(input.Scenes) == 0 {
		return fmt.Errorf("composition has no scenes")
	}

	tempDir, err := os.MkdirTemp("", "framecast_render_")
	if err != nil {
		return fmt.Errorf("create render temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	watcherDone := r.watchSegments(ctx, tempDir, len(input.Scenes))

	jobs := r.profile.SegmentJobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	segments := make([]string, len(input.Scenes))
	for i, scene := range input.Scenes {
		i, scene := i, scene
		segments[i] = filepath.Join(tempDir, fmt.Sprintf("seg_%03d.mp4", i))
		g.Go(func() error {
			return r.renderScene(gctx, comp, scene, segments[i])
		})
	}
	err = g.Wait()
	<-watcherDone
	if err != nil {
		return err
	}

	return r.concatSegments(ctx, segments, tempDir, outputPath)
}

// watchSegments reports finished segment files while the render runs. Pure
// observability; render correctness never depends on it.
func (r *FFmpegRenderer) watchSegments(ctx context.Context, dir string, total int) <-chan struct{} {
	done := make(chan struct{})
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("segment watcher unavailable", logger.ErrorField(err))
		close(done)
		return done
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		logger.Warn("segment watcher unavailable", logger.ErrorField(err))
		close(done)
		return done
	}

	go func() {
		defer close(done)
		defer watcher.Close()
		seen := 0
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Create != 0 && filepath.Ext(event.Name) == ".mp4" {
					seen++
					logger.Info("segment started",
						logger.String("segment", filepath.Base(event.Name)),
						logger.Int("of", total))
					if seen >= total {
						return
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return done
}

func (r *FFmpegRenderer) renderScene(ctx context.Context, comp *Composition, scene *model.Scene, outPath string) error {
	filterGraph := buildSceneFilter(comp, scene)

	args := []string{
		"-y",
		"-filter_complex", filterGraph,
		"-map", "[out]",
		"-r", fmt.Sprintf("%d", comp.FPS),
		"-t", fmt.Sprintf("%.3f", scene.DurationInSeconds),
		"-c:v", r.profile.VideoCodec,
		"-preset", r.profile.Preset,
		"-crf", fmt.Sprintf("%d", r.profile.CRF),
		"-pix_fmt", r.profile.PixelFormat,
		outPath,
	}

	cmd := exec.CommandContext(ctx, r.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg scene %d failed: %w: %s", scene.SceneNumber, err, tail(stderr.String(), 512))
	}
	return nil
}

func (r *FFmpegRenderer) concatSegments(ctx context.Context, segments []string, tempDir, outputPath string) error {
	listPath := filepath.Join(tempDir, "concat.txt")
	var list strings.Builder
	for _, seg := range segments {
		fmt.Fprintf(&list, "file '%s'\n", seg)
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.ffmpegPath,
		"-y", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", outputPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w: %s", err, tail(stderr.String(), 512))
	}
	return nil
}

// elementStyle is the subset of the free-form element style the renderer
// understands.
type elementStyle struct {
	FontSize  int    `json:"fontSize"`
	FontColor string `json:"fontColor"`
	FontFile  string `json:"fontFile"`
	Backdrop  string `json:"backdrop"`
}

func parseStyle(raw string) elementStyle {
	style := elementStyle{FontSize: 48, FontColor: "white"}
	if raw != "" {
		// unknown or broken style JSON falls back to defaults
		_ = json.Unmarshal([]byte(raw), &style)
	}
	return style
}

// buildSceneFilter assembles the filter_complex for one scene: a solid
// base, one generated layer per element, overlays gated by each element's
// time window, transforms from the animation resolver applied per layer.
func buildSceneFilter(comp *Composition, scene *model.Scene) string {
	var b strings.Builder

	fmt.Fprintf(&b, "color=c=black:s=%dx%d:r=%d:d=%.3f[base]",
		comp.Width, comp.Height, comp.FPS, scene.DurationInSeconds)

	prev := "[base]"
	for i, el := range scene.Elements {
		layer := fmt.Sprintf("[el%d]", i)
		out := fmt.Sprintf("[ov%d]", i)

		from := el.FromSecond
		to := el.EffectiveToSecond(scene.DurationInSeconds)
		transforms := animation.ForElement(el.EnterAnimation, el.ExitAnimation, from, to, comp.FPS)

		b.WriteString(";")
		switch el.Type {
		case model.ElementTypeMedia:
			fmt.Fprintf(&b, "movie='%s',scale=%d:%d,format=rgba,setpts=PTS-STARTPTS+%.3f/TB",
				escapeFilterValue(el.MediaSource),
				scaleDim(el.Width, comp.Width), scaleDim(el.Height, comp.Height), from)
		default:
			style := parseStyle(el.Style)
			fmt.Fprintf(&b, "color=c=black@0.0:s=%dx%d:r=%d:d=%.3f,format=rgba,drawtext=text='%s':fontsize=%d:fontcolor=%s:x=(w-text_w)/2:y=(h-text_h)/2",
				comp.Width, comp.Height, comp.FPS, scene.DurationInSeconds,
				escapeFilterValue(stripMarkup(el.Content)), style.FontSize, style.FontColor)
		}

		for _, tr := range transforms {
			if f := layerFilter(tr, comp); f != "" {
				b.WriteString(",")
				b.WriteString(f)
			}
		}
		b.WriteString(layer)

		x, y := overlayPosition(el, comp, transforms)
		fmt.Fprintf(&b, ";%s%soverlay=x=%s:y=%s:enable='between(t,%.3f,%.3f)'%s",
			prev, layer, x, y, from, to, out)
		prev = out
	}

	fmt.Fprintf(&b, ";%sformat=yuv420p[out]", prev)
	return b.String()
}

// layerFilter renders fade and zoom transforms into per-layer filters.
// Slides are positional and handled in overlayPosition instead.
func layerFilter(tr animation.Transform, comp *Composition) string {
	switch tr.Kind {
	case animation.KindFade:
		dir := "in"
		if tr.Exit {
			dir = "out"
		}
		return fmt.Sprintf("fade=t=%s:st=%.3f:d=%.3f:alpha=1", dir, tr.StartSecond, tr.DurationSeconds)
	case animation.KindZoom:
		// zoompan works in output frames; on/fps recovers seconds
		progress := fmt.Sprintf("min(1\\,max(0\\,((on/%d)-%.3f)/%.3f))", comp.FPS, tr.StartSecond, tr.DurationSeconds)
		z := fmt.Sprintf("1.3-0.3*%s", progress)
		if tr.Exit {
			z = fmt.Sprintf("1+0.3*%s", progress)
		}
		return fmt.Sprintf("zoompan=z='%s':d=1:s=%dx%d:fps=%d:x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)'",
			z, comp.Width, comp.Height, comp.FPS)
	default:
		return ""
	}
}

// overlayPosition yields the overlay x/y expressions, time-animated when a
// slide transform is present.
func overlayPosition(el *model.Element, comp *Composition, transforms []animation.Transform) (string, string) {
	baseX := fmt.Sprintf("%.0f", el.PosX*float64(comp.Width))
	baseY := fmt.Sprintf("%.0f", el.PosY*float64(comp.Height))

	x, y := baseX, baseY
	for _, tr := range transforms {
		if tr.Kind != animation.KindSlide {
			continue
		}
		progress := fmt.Sprintf("min(1\\,max(0\\,(t-%.3f)/%.3f))", tr.StartSecond, tr.DurationSeconds)
		if tr.Exit {
			progress = fmt.Sprintf("(1-%s)", progress)
		}
		switch tr.Direction {
		case animation.DirLeft:
			x = fmt.Sprintf("'-w+(%s+w)*%s'", baseX, progress)
		case animation.DirRight:
			x = fmt.Sprintf("'%d-(%d-%s)*%s'", comp.Width, comp.Width, baseX, progress)
		case animation.DirTop:
			y = fmt.Sprintf("'-h+(%s+h)*%s'", baseY, progress)
		case animation.DirBottom:
			y = fmt.Sprintf("'%d-(%d-%s)*%s'", comp.Height, comp.Height, baseY, progress)
		}
	}
	return x, y
}

func scaleDim(norm float64, full int) int {
	if norm <= 0 || norm > 1 {
		return full
	}
	return int(norm * float64(full))
}

// stripMarkup flattens raw element markup to plain drawtext content.
func stripMarkup(content string) string {
	out := content
	for {
		start := strings.Index(out, "<")
		if start < 0 {
			break
		}
		end := strings.Index(out[start:], ">")
		if end < 0 {
			break
		}
		out = out[:start] + out[start+end+1:]
	}
	return strings.TrimSpace(out)
}

func escapeFilterValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	v = strings.ReplaceAll(v, `:`, `\:`)
	return v
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
