package timeline

import (
	"math"
	"testing"
)

func TestFramesFromSeconds(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		fps     int
		want    int
	}{
		{"zero", 0, 30, 0},
		{"whole seconds", 5, 30, 150},
		{"rounds down", 1.01, 30, 30},
		{"rounds up", 1.99, 30, 60},
		{"rounds nearest", 0.5, 30, 15},
		{"odd fps", 2, 25, 50},
		{"fractional at 24fps", 1.5, 24, 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FramesFromSeconds(tt.seconds, tt.fps); got != tt.want {
				t.Fatalf("FramesFromSeconds(%v, %d) = %d, want %d", tt.seconds, tt.fps, got, tt.want)
			}
		})
	}
}

func TestSecondsFromFrames(t *testing.T) {
	if got := SecondsFromFrames(150, 30); got != 5 {
		t.Fatalf("SecondsFromFrames(150, 30) = %v, want 5", got)
	}
	if got := SecondsFromFrames(0, 30); got != 0 {
		t.Fatalf("SecondsFromFrames(0, 30) = %v, want 0", got)
	}
}

// Round-tripping seconds through frames must stay within one frame's worth
// of rounding error.
func TestConversionRoundTrip(t *testing.T) {
	fpsValues := []int{24, 25, 30, 60}
	secondValues := []float64{0, 0.04, 0.5, 1, 2.37, 5, 13.333, 59.98, 600}

	for _, fps := range fpsValues {
		for _, s := range secondValues {
			got := SecondsFromFrames(FramesFromSeconds(s, fps), fps)
			tolerance := 1.0 / float64(fps)
			if math.Abs(got-s) > tolerance {
				t.Errorf("round trip %vs at %dfps drifted to %vs (tolerance %v)", s, fps, got, tolerance)
			}
		}
	}
}
