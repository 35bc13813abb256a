package detector

import (
	"errors"
	"math"
	"testing"

	"gocv.io/x/gocv"
)

const epsilon = 1e-9

func TestFaceLandmarks_Pixel(t *testing.T) {
	face := &FaceLandmarks{Points: make([]Point3D, 5)}
	face.Points[NoseTip] = Point3D{X: 0.25, Y: 0.5}

	t.Run("scales by frame size", func(t *testing.T) {
		p := face.Pixel(NoseTip, 640, 480)
		if math.Abs(p.X-160) > epsilon || math.Abs(p.Y-240) > epsilon {
			t.Errorf("Pixel() = %+v, want (160, 240)", p)
		}
	})

	t.Run("missing index maps to origin", func(t *testing.T) {
		if p := face.Pixel(LeftEyeUpper, 640, 480); p != (Point2D{}) {
			t.Errorf("Pixel() = %+v for a missing landmark, want origin", p)
		}
	})

	t.Run("nil set", func(t *testing.T) {
		var none *FaceLandmarks
		if none.Has(NoseTip) {
			t.Error("nil FaceLandmarks reports landmarks")
		}
	})
}

func TestPoint2D_Distance(t *testing.T) {
	d := Point2D{X: 0, Y: 0}.Distance(Point2D{X: 3, Y: 4})
	if math.Abs(d-5) > epsilon {
		t.Errorf("Distance() = %f, want 5", d)
	}
}

func TestSyntheticFace(t *testing.T) {
	const w, h = 640, 480
	face := SyntheticFace(320, 0.25, w, h)

	if len(face.Points) != NumLandmarks {
		t.Fatalf("expected %d points, got %d", NumLandmarks, len(face.Points))
	}

	t.Run("nose at requested x", func(t *testing.T) {
		if got := face.Pixel(NoseTip, w, h).X; math.Abs(got-320) > epsilon {
			t.Errorf("nose x = %f, want 320", got)
		}
	})

	t.Run("eye ratio matches", func(t *testing.T) {
		eyes := [][4]int{
			{LeftEyeUpper, LeftEyeLower, LeftEyeOuter, LeftEyeInner},
			{RightEyeUpper, RightEyeLower, RightEyeInner, RightEyeOuter},
		}
		for _, e := range eyes {
			vertical := face.Pixel(e[0], w, h).Distance(face.Pixel(e[1], w, h))
			horizontal := face.Pixel(e[2], w, h).Distance(face.Pixel(e[3], w, h))
			if ratio := vertical / horizontal; math.Abs(ratio-0.25) > 1e-6 {
				t.Errorf("eye %v ratio = %f, want 0.25", e, ratio)
			}
		}
	})

	t.Run("presets", func(t *testing.T) {
		open := OpenEyesFace(300, w, h)
		closed := BlinkingFace(300, w, h)
		openLid := open.Pixel(LeftEyeUpper, w, h).Distance(open.Pixel(LeftEyeLower, w, h))
		closedLid := closed.Pixel(LeftEyeUpper, w, h).Distance(closed.Pixel(LeftEyeLower, w, h))
		if closedLid >= openLid {
			t.Errorf("blinking lid gap %f should be smaller than open gap %f", closedLid, openLid)
		}
	})
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantFaces int
		wantErr   bool
	}{
		{
			name:      "no face",
			line:      `{"faces":[]}`,
			wantFaces: 0,
		},
		{
			name:      "one face",
			line:      `{"faces":[{"points":[{"x":0.1,"y":0.2,"z":0},{"x":0.5,"y":0.5,"z":-0.1}],"score":0.9}]}`,
			wantFaces: 1,
		},
		{
			name:      "face without points is dropped",
			line:      `{"faces":[{"points":[],"score":0.9}]}`,
			wantFaces: 0,
		},
		{
			name:    "service error",
			line:    `{"faces":[],"error":"decode failed"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			line:    `{"faces":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faces, err := parseResponse([]byte(tt.line))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(faces) != tt.wantFaces {
				t.Errorf("parseResponse() returned %d faces, want %d", len(faces), tt.wantFaces)
			}
		})
	}
}

func TestParseResponse_Points(t *testing.T) {
	faces, err := parseResponse([]byte(`{"faces":[{"points":[{"x":0.1,"y":0.2,"z":0.3},{"x":0.4,"y":0.5,"z":0.6}],"score":0.8}]}`))
	if err != nil {
		t.Fatalf("parseResponse() error = %v", err)
	}

	face := faces[0]
	if face.Score != 0.8 {
		t.Errorf("Score = %f, want 0.8", face.Score)
	}
	if face.Points[1] != (Point3D{X: 0.4, Y: 0.5, Z: 0.6}) {
		t.Errorf("Points[1] = %+v", face.Points[1])
	}
}

func TestServiceArgs(t *testing.T) {
	args := serviceArgs(DefaultConfig())

	want := []string{
		"--max-faces", "1",
		"--min-detection-confidence", "0.5",
		"--min-tracking-confidence", "0.5",
		"--refine-landmarks",
	}
	if len(args) != len(want) {
		t.Fatalf("serviceArgs() = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, args[i], want[i])
		}
	}

	noRefine := DefaultConfig()
	noRefine.RefineLandmarks = false
	for _, a := range serviceArgs(noRefine) {
		if a == "--refine-landmarks" {
			t.Error("--refine-landmarks passed with RefineLandmarks disabled")
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxFaces != 1 {
		t.Errorf("MaxFaces = %d, want 1", cfg.MaxFaces)
	}
	if !cfg.RefineLandmarks {
		t.Error("RefineLandmarks should default to true for eye landmarks")
	}
}

func TestMockDetector(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	t.Run("returns configured faces", func(t *testing.T) {
		m := NewMockDetector()
		m.SetFaces(OpenEyesFace(320, 640, 480))

		faces, err := m.Detect(&frame)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(faces) != 1 {
			t.Errorf("Detect() returned %d faces, want 1", len(faces))
		}
		if m.Calls() != 1 {
			t.Errorf("Calls() = %d, want 1", m.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		m := NewMockDetector()
		wantErr := errors.New("service died")
		m.SetError(wantErr)

		if _, err := m.Detect(&frame); !errors.Is(err, wantErr) {
			t.Errorf("Detect() error = %v, want %v", err, wantErr)
		}
	})

	t.Run("no faces by default", func(t *testing.T) {
		m := NewMockDetector()
		faces, err := m.Detect(&frame)
		if err != nil || len(faces) != 0 {
			t.Errorf("Detect() = %v, %v; want no faces and no error", faces, err)
		}
	})
}
