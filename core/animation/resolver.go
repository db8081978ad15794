// Package animation maps symbolic enter/exit animation names to concrete
// time-bounded transform descriptors. The resolver is pure: it knows
// nothing about playback state, and the caller decides whether resolved
// transforms are applied at all (static contexts such as drag previews
// suppress them entirely).
package animation

import "Framecast/core/timeline"

// Length is the fixed animation window in seconds. Enter animations run for
// Length starting at the element's FromSecond; exit animations run for
// Length ending at the element's effective end.
const Length = 2.0

// Kind is the animation family a transform belongs to.
type Kind int

const (
	KindFade Kind = iota
	KindZoom
	KindSlide
)

// Direction refines a Kind: zoom in/out, slide from which edge.
type Direction string

const (
	DirIn     Direction = "in"
	DirOut    Direction = "out"
	DirLeft   Direction = "left"
	DirRight  Direction = "right"
	DirTop    Direction = "top"
	DirBottom Direction = "bottom"
)

// EnterName and ExitName are distinct namespaces: "ZoomIn" is only ever an
// enter animation, "ZoomOut" only ever an exit.
type EnterName string

const (
	EnterNone          EnterName = ""
	EnterFadeIn        EnterName = "FadeIn"
	EnterZoomIn        EnterName = "ZoomIn"
	EnterSlideInLeft   EnterName = "SlideInLeft"
	EnterSlideInRight  EnterName = "SlideInRight"
	EnterSlideInTop    EnterName = "SlideInTop"
	EnterSlideInBottom EnterName = "SlideInBottom"
)

type ExitName string

const (
	ExitNone          ExitName = ""
	ExitFadeOut       ExitName = "FadeOut"
	ExitZoomOut       ExitName = "ZoomOut"
	ExitSlideOutLeft  ExitName = "SlideOutLeft"
	ExitSlideOutRight ExitName = "SlideOutRight"
	ExitSlideOutTop   ExitName = "SlideOutTop"
	ExitSlideOutBotm  ExitName = "SlideOutBottom"
)

// Transform is a resolved, time-bounded transform descriptor understood by
// the renderer.
type Transform struct {
	Kind      Kind
	Direction Direction
	// Exit is true for exit-namespace transforms; the renderer runs these
	// backwards (full presence to absence).
	Exit bool

	StartSecond     float64
	DurationSeconds float64
	StartFrame      int
	DurationFrames  int
}

type shape struct {
	kind Kind
	dir  Direction
}

// The lookup tables are the single source of which names exist. An unknown
// or empty name resolves to no transform, never to an error.
var enterTable = map[EnterName]shape{
	EnterFadeIn:        {KindFade, DirIn},
	EnterZoomIn:        {KindZoom, DirIn},
	EnterSlideInLeft:   {KindSlide, DirLeft},
	EnterSlideInRight:  {KindSlide, DirRight},
	EnterSlideInTop:    {KindSlide, DirTop},
	EnterSlideInBottom: {KindSlide, DirBottom},
}

var exitTable = map[ExitName]shape{
	ExitFadeOut:       {KindFade, DirOut},
	ExitZoomOut:       {KindZoom, DirOut},
	ExitSlideOutLeft:  {KindSlide, DirLeft},
	ExitSlideOutRight: {KindSlide, DirRight},
	ExitSlideOutTop:   {KindSlide, DirTop},
	ExitSlideOutBotm:  {KindSlide, DirBottom},
}

func window(s shape, start float64, exit bool, fps int) *Transform {
	duration := Length
	if start < 0 {
		// window pushed before time zero, e.g. an exit on a very short
		// element; shrink rather than run negative
		duration += start
		start = 0
	}
	if duration <= 0 {
		return nil
	}
	return &Transform{
		Kind:            s.kind,
		Direction:       s.dir,
		Exit:            exit,
		StartSecond:     start,
		DurationSeconds: duration,
		StartFrame:      timeline.FramesFromSeconds(start, fps),
		DurationFrames:  timeline.FramesFromSeconds(duration, fps),
	}
}

// ResolveEnter resolves an enter animation anchored at the element's
// FromSecond. Unknown or empty names yield nil.
func ResolveEnter(name string, fromSecond float64, fps int) *Transform {
	s, ok := enterTable[EnterName(name)]
	if !ok {
		return nil
	}
	return window(s, fromSecond, false, fps)
}

// ResolveExit resolves an exit animation anchored Length seconds before the
// element's effective end. Unknown or empty names yield nil.
func ResolveExit(name string, effectiveEnd float64, fps int) *Transform {
	s, ok := exitTable[ExitName(name)]
	if !ok {
		return nil
	}
	return window(s, effectiveEnd-Length, true, fps)
}

// ForElement resolves both windows of an element and returns the zero, one
// or two transforms it contributes.
func ForElement(enter, exit string, fromSecond, effectiveEnd float64, fps int) []Transform {
	var out []Transform
	if tr := ResolveEnter(enter, fromSecond, fps); tr != nil {
		out = append(out, *tr)
	}
	if tr := ResolveExit(exit, effectiveEnd, fps); tr != nil {
		out = append(out, *tr)
	}
	return out
}
