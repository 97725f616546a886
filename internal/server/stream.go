package server

import (
	"fmt"
	"image"
	"image/color"
	"net/http"
	"time"

	"gocv.io/x/gocv"
	"seehuhn.de/go/geom/vec"

	"github.com/ayusman/spellcast/internal/capture"
)

// TrailFunc returns the stroke being drawn, in viewport coordinates.
type TrailFunc func() []vec.Vec2

var trailColor = color.RGBA{R: 255, G: 200, B: 40, A: 0}

// StreamHandler serves MJPEG frames from the camera with the current stroke
// drawn on top.
type StreamHandler struct {
	camera   capture.Camera
	trail    TrailFunc
	viewport image.Point
	interval time.Duration
}

// NewStreamHandler creates a StreamHandler at roughly 15 fps. trail may be nil.
func NewStreamHandler(camera capture.Camera, trail TrailFunc, viewport image.Point) *StreamHandler {
	return &StreamHandler{
		camera:   camera,
		trail:    trail,
		viewport: viewport,
		interval: 66 * time.Millisecond,
	}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		frame, err := h.camera.ReadFrame()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		if h.trail != nil {
			drawTrail(frame, scaleTrail(h.trail(), h.viewport, image.Pt(frame.Cols(), frame.Rows())))
		}

		buf, err := gocv.IMEncode(".jpg", *frame)
		frame.Close()
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(h.interval)
	}
}

// scaleTrail maps viewport points onto a frame of the given size.
func scaleTrail(pts []vec.Vec2, viewport, frame image.Point) []image.Point {
	if len(pts) == 0 || viewport.X <= 0 || viewport.Y <= 0 {
		return nil
	}
	sx := float64(frame.X) / float64(viewport.X)
	sy := float64(frame.Y) / float64(viewport.Y)

	out := make([]image.Point, len(pts))
	for i, p := range pts {
		out[i] = image.Pt(int(p.X*sx+0.5), int(p.Y*sy+0.5))
	}
	return out
}

func drawTrail(frame *gocv.Mat, pts []image.Point) {
	for i := 1; i < len(pts); i++ {
		gocv.Line(frame, pts[i-1], pts[i], trailColor, 3)
	}
}
