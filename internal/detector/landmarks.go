// Package detector provides hand detection interfaces and keypoint types consumed by the spell pipeline.
package detector

import (
	"errors"
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// minPalmScale floors the palm reference distance so curl ratios stay finite.
const minPalmScale = 1e-6

// ErrInvalidLandmarks is returned when a keypoint set violates the detector contract.
var ErrInvalidLandmarks = errors.New("invalid hand landmarks")

// Finger identifies one of the four non-thumb fingers used for curl checks.
type Finger int

const (
	Index Finger = iota
	Middle
	Ring
	Pinky
)

// Fingers lists the curl-checked fingers in index-to-pinky order.
var Fingers = [4]Finger{Index, Middle, Ring, Pinky}

// fingerJoints maps a finger to its (tip, base knuckle) landmark indices.
var fingerJoints = [4][2]int{
	Index:  {IndexTip, IndexMCP},
	Middle: {MiddleTip, MiddleMCP},
	Ring:   {RingTip, RingMCP},
	Pinky:  {PinkyTip, PinkyMCP},
}

func (f Finger) String() string {
	switch f {
	case Index:
		return "index"
	case Middle:
		return "middle"
	case Ring:
		return "ring"
	case Pinky:
		return "pinky"
	default:
		return fmt.Sprintf("finger(%d)", int(f))
	}
}

// Point3D represents a landmark position. X and Y are normalized to the
// camera frame (0-1); Z is relative depth and is ignored by the pipeline.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// distance2D calculates the planar Euclidean distance between two landmarks.
func distance2D(a, b Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Validate checks that every keypoint carries finite image coordinates.
// A failure means the upstream detector broke its contract, not that the
// gesture is ambiguous.
func (h *HandLandmarks) Validate() error {
	if h == nil {
		return fmt.Errorf("%w: nil keypoint set", ErrInvalidLandmarks)
	}
	for i, p := range h.Points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("%w: keypoint %d is not finite (%v, %v)", ErrInvalidLandmarks, i, p.X, p.Y)
		}
	}
	return nil
}

// PalmScale returns the wrist to middle-finger base distance, the reference
// length used to normalize curl ratios against hand size and camera distance.
func (h *HandLandmarks) PalmScale() float64 {
	return distance2D(h.Points[Wrist], h.Points[MiddleMCP])
}

// Curl returns the tip to base-knuckle distance of a finger divided by the
// palm scale. Low values mean curled, high values mean extended.
func (h *HandLandmarks) Curl(f Finger) float64 {
	joints := fingerJoints[f]
	palm := math.Max(h.PalmScale(), minPalmScale)
	return distance2D(h.Points[joints[0]], h.Points[joints[1]]) / palm
}

// Fingertip returns the index fingertip denormalized to a viewport of the
// given pixel size. It is not clamped and the image is not mirrored.
func (h *HandLandmarks) Fingertip(width, height float64) (x, y float64) {
	tip := h.Points[IndexTip]
	return tip.X * width, tip.Y * height
}

// Translated returns a copy of the hand with every landmark shifted by (dx, dy).
func (h HandLandmarks) Translated(dx, dy float64) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}
