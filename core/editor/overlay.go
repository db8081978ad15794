package editor

import (
	"Framecast/logger"
	"Framecast/model"
)

// ElementPatch is a shallow property merge for the overlay buffer. Nil
// fields are left untouched.
type ElementPatch struct {
	Type           *model.ElementType
	ElementNumber  *int
	FromSecond     *float64
	ToSecond       *float64
	Content        *string
	MediaSource    *string
	PosX           *float64
	PosY           *float64
	Width          *float64
	Height         *float64
	Style          *string
	EnterAnimation *string
	ExitAnimation  *string
}

func (p ElementPatch) apply(el *model.Element) {
	if p.Type != nil {
		el.Type = *p.Type
	}
	if p.ElementNumber != nil {
		el.ElementNumber = *p.ElementNumber
	}
	if p.FromSecond != nil {
		el.FromSecond = *p.FromSecond
	}
	if p.ToSecond != nil {
		el.ToSecond = *p.ToSecond
	}
	if p.Content != nil {
		el.Content = *p.Content
	}
	if p.MediaSource != nil {
		el.MediaSource = *p.MediaSource
	}
	if p.PosX != nil {
		el.PosX = *p.PosX
	}
	if p.PosY != nil {
		el.PosY = *p.PosY
	}
	if p.Width != nil {
		el.Width = *p.Width
	}
	if p.Height != nil {
		el.Height = *p.Height
	}
	if p.Style != nil {
		el.Style = *p.Style
	}
	if p.EnterAnimation != nil {
		el.EnterAnimation = *p.EnterAnimation
	}
	if p.ExitAnimation != nil {
		el.ExitAnimation = *p.ExitAnimation
	}
}

// Select switches the element under edit. The previous overlay, if its
// element still exists, is committed before the switch; passing nil clears
// overlay and selection entirely. Selecting pauses playback, since editing
// and playback are mutually exclusive modes.
func (s *Session) Select(element *model.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commitLocked()

	if element == nil {
		s.clearSelectionLocked()
		return
	}

	stored, _, err := s.timeline.FindElement(element.ID)
	if err != nil {
		logger.Warn("select of unknown element ignored", logger.Int64("elementId", element.ID))
		s.clearSelectionLocked()
		return
	}

	s.player.Playing = false
	s.player.SelectedElementID = stored.ID
	s.overlay = stored.Clone()
	s.overlayDirty = false
}

// Overlay returns a copy of the current overlay buffer, or nil when no
// element is selected.
func (s *Session) Overlay() *model.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.Clone()
}

// SetOverlay replaces the overlay buffer wholesale for the currently
// selected element. The replacement is ignored when its id does not match
// the selection.
func (s *Session) SetOverlay(element *model.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if element == nil || element.ID != s.player.SelectedElementID {
		return
	}
	s.overlay = element.Clone()
	s.overlayDirty = true
	s.armDebounceLocked()
}

// UpdateOverlay shallow-merges a patch into the overlay buffer. The
// canonical timeline is untouched; the debounce timer is reset so the edit
// eventually commits even without navigation.
func (s *Session) UpdateOverlay(patch ElementPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overlay == nil {
		return
	}
	patch.apply(s.overlay)
	s.overlayDirty = true
	s.armDebounceLocked()
}

// Commit merges the overlay buffer back into the timeline. Safe to call
// redundantly: committing twice with no intervening edit leaves the model
// unchanged.
func (s *Session) Commit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked()
}

func (s *Session) commitLocked() {
	s.stopDebounceLocked()
	if s.overlay == nil || s.overlay.ID != s.player.SelectedElementID {
		return
	}

	// replace, not patch-merge, so buffer and model converge exactly
	committed := s.overlay.Clone()
	if err := s.timeline.ReplaceElement(committed); err != nil {
		logger.Warn("overlay commit target missing, dropping buffer",
			logger.Int64("elementId", s.overlay.ID), logger.ErrorField(err))
		s.dropOverlayLocked()
		return
	}

	if s.overlayDirty {
		s.overlayDirty = false
		s.replicateElementLocked(committed)
	}
}

func (s *Session) dropOverlayLocked() {
	s.stopDebounceLocked()
	s.overlay = nil
	s.overlayDirty = false
}

func (s *Session) armDebounceLocked() {
	s.stopDebounceLocked()
	s.debounceTimer = s.newTimer(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.commitLocked()
	})
}

func (s *Session) stopDebounceLocked() {
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
}
