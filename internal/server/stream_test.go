package server

import (
	"image"
	"net/http"
	"net/http/httptest"
	"testing"

	"gocv.io/x/gocv"
	"seehuhn.de/go/geom/vec"

	"github.com/ayusman/spellcast/internal/capture"
)

func TestScaleTrail(t *testing.T) {
	tests := []struct {
		name     string
		pts      []vec.Vec2
		viewport image.Point
		frame    image.Point
		want     []image.Point
	}{
		{
			name:     "viewport to camera frame",
			pts:      []vec.Vec2{{X: 0, Y: 0}, {X: 450, Y: 280}, {X: 900, Y: 560}},
			viewport: image.Pt(900, 560),
			frame:    image.Pt(640, 480),
			want:     []image.Point{{0, 0}, {320, 240}, {640, 480}},
		},
		{
			name:     "empty stroke",
			viewport: image.Pt(900, 560),
			frame:    image.Pt(640, 480),
		},
		{
			name:     "unknown viewport",
			pts:      []vec.Vec2{{X: 1, Y: 1}},
			viewport: image.Point{},
			frame:    image.Pt(640, 480),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scaleTrail(tt.pts, tt.viewport, tt.frame)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStreamHandler_MethodNotAllowed(t *testing.T) {
	h := NewStreamHandler(capture.NewMockCamera(nil, false), nil, image.Pt(900, 560))

	req := httptest.NewRequest(http.MethodPost, "/api/stream", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestDrawTrail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	drawTrail(&frame, []image.Point{{10, 10}, {200, 10}, {200, 200}})

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	if gocv.CountNonZero(gray) == 0 {
		t.Error("trail was not drawn")
	}
}
