package editor

// PlayerState is the playback cursor and selection state of a session. It
// is process-local, re-derived on every project load, and never persisted.
// Zero ids mean "nothing selected" / "whole-project preview".
type PlayerState struct {
	Frame             int     `json:"frame"`
	Playing           bool    `json:"playing"`
	Zoom              float64 `json:"zoom"`
	SelectedElementID int64   `json:"selectedElementId"`
	CurrentSceneID    int64   `json:"currentSceneId"`
	// AnimationsEnabled is cleared while an element is being dragged so the
	// preview renders a static pose; any seek re-enables it.
	AnimationsEnabled bool `json:"animationsEnabled"`
}

// Player returns a snapshot of the player state.
func (s *Session) Player() PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// Play starts playback. Playback and element editing are mutually
// exclusive, so any pending overlay is committed and the selection cleared
// first.
func (s *Session) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked()
	s.clearSelectionLocked()
	s.player.Playing = true
}

// Pause stops playback without touching selection.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Playing = false
}

// Toggle flips between playing and paused. Toggling into playback behaves
// like Play.
func (s *Session) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player.Playing {
		s.player.Playing = false
		return
	}
	s.commitLocked()
	s.clearSelectionLocked()
	s.player.Playing = true
}

// SetZoom updates the editor zoom factor.
func (s *Session) SetZoom(zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if zoom > 0 {
		s.player.Zoom = zoom
	}
}

// SetAnimationsEnabled toggles animation playback in the preview; drags
// disable it, seeks re-enable it.
func (s *Session) SetAnimationsEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.AnimationsEnabled = enabled
}

// SeekTo moves the playback cursor. The frame is clamped to
// [0, totalFrames); seeking commits any pending overlay, clears the
// selection and re-enables animation playback.
func (s *Session) SeekTo(frame int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekToLocked(frame)
}

// SeekToScene seeks to the first frame of the scene at index.
func (s *Session) SeekToScene(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekToLocked(s.timeline.SceneOffsetFrames(index))
}

func (s *Session) seekToLocked(frame int) {
	s.commitLocked()
	s.clearSelectionLocked()

	total := s.timeline.TotalFrames()
	if frame < 0 {
		frame = 0
	}
	if total > 0 && frame >= total {
		frame = total - 1
	}
	if total == 0 {
		frame = 0
	}

	s.player.Frame = frame
	s.player.AnimationsEnabled = true
	if scene, _ := s.timeline.SceneAtFrame(frame); scene != nil {
		s.player.CurrentSceneID = scene.ID
	} else {
		s.player.CurrentSceneID = 0
	}
}

func (s *Session) clearSelectionLocked() {
	s.player.SelectedElementID = 0
	s.dropOverlayLocked()
}
