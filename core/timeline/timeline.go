package timeline

import (
	"errors"
	"sort"

	"Framecast/model"
)

var (
	// ErrSceneNotFound reports an operation against a scene id the timeline
	// does not hold. Returned, never panicked; render and player paths treat
	// it as a failed operation.
	ErrSceneNotFound = errors.New("timeline: scene not found")
	// ErrElementNotFound is the element-level counterpart of ErrSceneNotFound.
	ErrElementNotFound = errors.New("timeline: element not found")
)

// Timeline is the in-memory source of truth for one project's composition:
// scenes ordered by SceneNumber, each owning its elements ordered by
// ElementNumber. It is not safe for concurrent use; the owning session
// serializes access.
type Timeline struct {
	orientation *model.Orientation
	scenes      []*model.Scene
}

// New builds a timeline from an orientation and a scene list. Scenes and
// their elements are sorted into canonical order; the caller's slices are
// taken over, not copied.
func New(orientation *model.Orientation, scenes []*model.Scene) *Timeline {
	t := &Timeline{orientation: orientation, scenes: scenes}
	t.sortCanonical()
	return t
}

func (t *Timeline) sortCanonical() {
	sort.SliceStable(t.scenes, func(i, j int) bool {
		return t.scenes[i].SceneNumber < t.scenes[j].SceneNumber
	})
	for _, s := range t.scenes {
		els := s.Elements
		sort.SliceStable(els, func(i, j int) bool {
			return els[i].ElementNumber < els[j].ElementNumber
		})
	}
}

// Orientation returns the project orientation backing this timeline.
func (t *Timeline) Orientation() *model.Orientation {
	return t.orientation
}

// FPS returns the project frame rate.
func (t *Timeline) FPS() int {
	if t.orientation == nil {
		return 0
	}
	return t.orientation.FPS
}

// Scenes returns the scenes in canonical order. Callers must not reorder
// the returned slice.
func (t *Timeline) Scenes() []*model.Scene {
	return t.scenes
}

// SceneCount returns the number of scenes.
func (t *Timeline) SceneCount() int {
	return len(t.scenes)
}

// TotalDurationSeconds sums the scene durations.
func (t *Timeline) TotalDurationSeconds() float64 {
	var total float64
	for _, s := range t.scenes {
		total += s.DurationInSeconds
	}
	return total
}

// TotalFrames is the per-scene rounded frame sum, not the rounded total, so
// it always matches the scene offsets.
func (t *Timeline) TotalFrames() int {
	fps := t.FPS()
	total := 0
	for _, s := range t.scenes {
		total += FramesFromSeconds(s.DurationInSeconds, fps)
	}
	return total
}

// SceneOffsetFrames returns the cumulative frame count of all scenes before
// index, which is the first frame of the scene at index.
func (t *Timeline) SceneOffsetFrames(index int) int {
	fps := t.FPS()
	offset := 0
	for i := 0; i < index && i < len(t.scenes); i++ {
		offset += FramesFromSeconds(t.scenes[i].DurationInSeconds, fps)
	}
	return offset
}

// SceneAtFrame walks the scenes in order accumulating frames and returns
// the scene containing frame, plus its index. A frame landing exactly on a
// scene boundary belongs to the scene that starts there, uniformly for
// every caller, so seeking to a scene's offset always reports that scene as
// current. Returns (nil, -1) on an empty timeline or a frame beyond the
// end.
func (t *Timeline) SceneAtFrame(frame int) (*model.Scene, int) {
	fps := t.FPS()
	cumulative := 0
	for i, s := range t.scenes {
		cumulative += FramesFromSeconds(s.DurationInSeconds, fps)
		if cumulative > frame {
			return s, i
		}
	}
	return nil, -1
}

// SceneIndexByID returns the canonical index of the scene, or -1.
func (t *Timeline) SceneIndexByID(id int64) int {
	for i, s := range t.scenes {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// SceneByID returns the scene with the given id, or nil.
func (t *Timeline) SceneByID(id int64) *model.Scene {
	if i := t.SceneIndexByID(id); i >= 0 {
		return t.scenes[i]
	}
	return nil
}

// NextSceneNumber returns the scene number an AddScene without an explicit
// number will assign.
func (t *Timeline) NextSceneNumber() int {
	max := 0
	for _, s := range t.scenes {
		if s.SceneNumber > max {
			max = s.SceneNumber
		}
	}
	return max + 1
}

// AddScene inserts a scene, assigning the next SceneNumber when the caller
// left it zero, and re-sorts into canonical order. Numbering is derived
// from the committed list, not from any insertion position.
func (t *Timeline) AddScene(scene *model.Scene) *model.Scene {
	if scene.SceneNumber == 0 {
		scene.SceneNumber = t.NextSceneNumber()
	}
	t.scenes = append(t.scenes, scene)
	t.sortCanonical()
	return scene
}

// DeleteScene removes the scene with the given id and returns the index it
// occupied, so the player can repair its cursor.
func (t *Timeline) DeleteScene(id int64) (int, error) {
	idx := t.SceneIndexByID(id)
	if idx < 0 {
		return -1, ErrSceneNotFound
	}
	t.scenes = append(t.scenes[:idx], t.scenes[idx+1:]...)
	return idx, nil
}

// NextElementNumber returns the element number an AddElement without an
// explicit number will assign within the scene.
func (t *Timeline) NextElementNumber(scene *model.Scene) int {
	max := 0
	for _, el := range scene.Elements {
		if el.ElementNumber > max {
			max = el.ElementNumber
		}
	}
	return max + 1
}

// AddElement appends an element to the scene, assigning the next
// ElementNumber when the caller left it zero.
func (t *Timeline) AddElement(sceneID int64, element *model.Element) error {
	scene := t.SceneByID(sceneID)
	if scene == nil {
		return ErrSceneNotFound
	}
	element.SceneID = sceneID
	if element.ElementNumber == 0 {
		element.ElementNumber = t.NextElementNumber(scene)
	}
	scene.Elements = append(scene.Elements, element)
	sort.SliceStable(scene.Elements, func(i, j int) bool {
		return scene.Elements[i].ElementNumber < scene.Elements[j].ElementNumber
	})
	return nil
}

// FindElement locates an element anywhere in the timeline and returns it
// together with its owning scene.
func (t *Timeline) FindElement(elementID int64) (*model.Element, *model.Scene, error) {
	for _, s := range t.scenes {
		for _, el := range s.Elements {
			if el.ID == elementID {
				return el, s, nil
			}
		}
	}
	return nil, nil, ErrElementNotFound
}

// ReplaceElement swaps the stored element for the given value wholesale.
// Overlay commits use this replace-not-merge semantic so the buffer and the
// model converge exactly; non-overlay property updates go through it too.
func (t *Timeline) ReplaceElement(element *model.Element) error {
	scene := t.SceneByID(element.SceneID)
	if scene == nil {
		return ErrSceneNotFound
	}
	for i, el := range scene.Elements {
		if el.ID == element.ID {
			scene.Elements[i] = element
			sort.SliceStable(scene.Elements, func(a, b int) bool {
				return scene.Elements[a].ElementNumber < scene.Elements[b].ElementNumber
			})
			return nil
		}
	}
	return ErrElementNotFound
}

// DeleteElement removes the element with the given id from whichever scene
// holds it.
func (t *Timeline) DeleteElement(elementID int64) error {
	for _, s := range t.scenes {
		for i, el := range s.Elements {
			if el.ID == elementID {
				s.Elements = append(s.Elements[:i], s.Elements[i+1:]...)
				return nil
			}
		}
	}
	return ErrElementNotFound
}

// ReplaceScenes overwrites the scene list wholesale. Used by the resync
// path after a failed replication.
func (t *Timeline) ReplaceScenes(scenes []*model.Scene) {
	t.scenes = scenes
	t.sortCanonical()
}
