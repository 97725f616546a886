package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns scripted frames first, then the configured fixed result.
type MockDetector struct {
	hands  []HandLandmarks
	script [][]HandLandmarks
	err    error
	mu     sync.Mutex
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned once the script is exhausted.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Script queues per-frame results; each Detect call consumes one entry.
// A nil entry simulates a frame with no hand.
func (m *MockDetector) Script(frames ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, frames...)
}

// Pending returns the number of scripted frames not yet consumed.
func (m *MockDetector) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.script)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next scripted frame, the configured hands, or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// handBase returns a right hand with wrist, thumb and the four base
// knuckles placed; the palm scale (wrist to middle MCP) is 0.2.
func handBase() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.76}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.72}
	landmarks.Points[ThumbIP] = Point3D{X: 0.62, Y: 0.68}
	landmarks.Points[ThumbTip] = Point3D{X: 0.63, Y: 0.64}

	landmarks.Points[IndexMCP] = Point3D{X: 0.56, Y: 0.62}
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.60}
	landmarks.Points[RingMCP] = Point3D{X: 0.44, Y: 0.62}
	landmarks.Points[PinkyMCP] = Point3D{X: 0.39, Y: 0.66}

	return landmarks
}

func curlMiddleRingPinky(l *HandLandmarks) {
	l.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.56, Z: -0.03}
	l.Points[MiddleDIP] = Point3D{X: 0.49, Y: 0.61, Z: -0.04}
	l.Points[MiddleTip] = Point3D{X: 0.49, Y: 0.65, Z: -0.02}

	l.Points[RingPIP] = Point3D{X: 0.44, Y: 0.58, Z: -0.03}
	l.Points[RingDIP] = Point3D{X: 0.43, Y: 0.62, Z: -0.04}
	l.Points[RingTip] = Point3D{X: 0.43, Y: 0.66, Z: -0.02}

	l.Points[PinkyPIP] = Point3D{X: 0.39, Y: 0.63, Z: -0.03}
	l.Points[PinkyDIP] = Point3D{X: 0.38, Y: 0.66, Z: -0.04}
	l.Points[PinkyTip] = Point3D{X: 0.38, Y: 0.69, Z: -0.02}
}

func extendIndex(l *HandLandmarks) {
	l.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.54}
	l.Points[IndexDIP] = Point3D{X: 0.575, Y: 0.47}
	l.Points[IndexTip] = Point3D{X: 0.58, Y: 0.40}
}

// PointingLandmarks returns a preset hand with the index finger extended
// upward and the other three fingers curled (the drawing pose).
func PointingLandmarks() HandLandmarks {
	landmarks := handBase()
	extendIndex(&landmarks)
	curlMiddleRingPinky(&landmarks)
	return landmarks
}

// FistLandmarks returns a preset hand with all four fingers curled (the cast pose).
func FistLandmarks() HandLandmarks {
	landmarks := handBase()
	landmarks.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.58, Z: -0.03}
	landmarks.Points[IndexDIP] = Point3D{X: 0.55, Y: 0.62, Z: -0.04}
	landmarks.Points[IndexTip] = Point3D{X: 0.55, Y: 0.66, Z: -0.02}
	curlMiddleRingPinky(&landmarks)
	return landmarks
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := handBase()
	extendIndex(&landmarks)

	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.50}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.44}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.38}

	landmarks.Points[RingPIP] = Point3D{X: 0.44, Y: 0.54}
	landmarks.Points[RingDIP] = Point3D{X: 0.435, Y: 0.48}
	landmarks.Points[RingTip] = Point3D{X: 0.43, Y: 0.42}

	landmarks.Points[PinkyPIP] = Point3D{X: 0.385, Y: 0.60}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.38, Y: 0.54}
	landmarks.Points[PinkyTip] = Point3D{X: 0.37, Y: 0.49}

	return landmarks
}

// PointingAt returns the pointing pose shifted so the index fingertip sits
// at the normalized position (x, y).
func PointingAt(x, y float64) HandLandmarks {
	l := PointingLandmarks()
	tip := l.Points[IndexTip]
	return l.Translated(x-tip.X, y-tip.Y)
}

// FistAt returns the fist pose shifted so the index fingertip sits at the
// normalized position (x, y).
func FistAt(x, y float64) HandLandmarks {
	l := FistLandmarks()
	tip := l.Points[IndexTip]
	return l.Translated(x-tip.X, y-tip.Y)
}
