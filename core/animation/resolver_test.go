package animation

import "testing"

func TestResolveEnter(t *testing.T) {
	tests := []struct {
		name       string
		animation  string
		from       float64
		wantNil    bool
		wantKind   Kind
		wantStart  float64
		wantFrames int
	}{
		{"fade in", "FadeIn", 1, false, KindFade, 1, 60},
		{"zoom in", "ZoomIn", 0, false, KindZoom, 0, 60},
		{"slide in left", "SlideInLeft", 2.5, false, KindSlide, 2.5, 60},
		{"empty name", "", 0, true, 0, 0, 0},
		{"unknown name", "Wobble", 0, true, 0, 0, 0},
		{"exit name in enter namespace", "FadeOut", 0, true, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := ResolveEnter(tt.animation, tt.from, 30)
			if tt.wantNil {
				if tr != nil {
					t.Fatalf("ResolveEnter(%q) = %+v, want nil", tt.animation, tr)
				}
				return
			}
			if tr == nil {
				t.Fatalf("ResolveEnter(%q) = nil", tt.animation)
			}
			if tr.Kind != tt.wantKind || tr.StartSecond != tt.wantStart || tr.DurationFrames != tt.wantFrames {
				t.Fatalf("ResolveEnter(%q) = %+v", tt.animation, tr)
			}
			if tr.Exit {
				t.Fatal("enter transform flagged as exit")
			}
		})
	}
}

func TestResolveExitAnchor(t *testing.T) {
	// exit window ends at the effective end
	tr := ResolveExit("FadeOut", 5, 30)
	if tr == nil {
		t.Fatal("ResolveExit(FadeOut) = nil")
	}
	if tr.StartSecond != 3 || tr.DurationSeconds != Length {
		t.Fatalf("exit window = start %v dur %v, want start 3 dur %v", tr.StartSecond, tr.DurationSeconds, Length)
	}
	if !tr.Exit {
		t.Fatal("exit transform not flagged")
	}
}

func TestResolveExitShortElement(t *testing.T) {
	// element shorter than the animation window: window is clipped at zero
	tr := ResolveExit("FadeOut", 1, 30)
	if tr == nil {
		t.Fatal("ResolveExit on short element = nil")
	}
	if tr.StartSecond != 0 || tr.DurationSeconds != 1 {
		t.Fatalf("clipped window = start %v dur %v, want start 0 dur 1", tr.StartSecond, tr.DurationSeconds)
	}
}

func TestResolveExitUnknown(t *testing.T) {
	if tr := ResolveExit("", 5, 30); tr != nil {
		t.Fatalf("ResolveExit(\"\") = %+v, want nil", tr)
	}
	if tr := ResolveExit("ZoomIn", 5, 30); tr != nil {
		t.Fatalf("ResolveExit(ZoomIn) = %+v, want nil (enter name)", tr)
	}
}

func TestForElement(t *testing.T) {
	tests := []struct {
		name      string
		enter     string
		exit      string
		wantCount int
	}{
		{"both", "FadeIn", "FadeOut", 2},
		{"enter only", "ZoomIn", "", 1},
		{"exit only", "", "SlideOutRight", 1},
		{"none", "", "", 0},
		{"both unknown", "Glitch", "Melt", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForElement(tt.enter, tt.exit, 0, 5, 30)
			if len(got) != tt.wantCount {
				t.Fatalf("ForElement(%q, %q) returned %d transforms, want %d",
					tt.enter, tt.exit, len(got), tt.wantCount)
			}
		})
	}
}
