package timeline

import "math"

// All timeline arithmetic goes through these two conversions so rounding
// behaves the same everywhere: player cursor, scene boundaries, render
// duration metadata.

// FramesFromSeconds converts a duration in seconds to a frame count at the
// given frame rate, rounding to the nearest frame.
func FramesFromSeconds(seconds float64, fps int) int {
	return int(math.Round(seconds * float64(fps)))
}

// SecondsFromFrames converts a frame count back to seconds at the given
// frame rate.
func SecondsFromFrames(frame int, fps int) float64 {
	return float64(frame) / float64(fps)
}
