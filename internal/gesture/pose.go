package gesture

import (
	"github.com/ayusman/spellcast/internal/detector"
)

// Pose is the per-frame reading of the hand.
type Pose int

const (
	// PoseNeither is any hand shape that is not pointing or a fist.
	PoseNeither Pose = iota
	// PosePointing is the index finger extended with the rest curled.
	PosePointing
	// PoseFist is all four fingers curled.
	PoseFist
)

func (p Pose) String() string {
	switch p {
	case PosePointing:
		return "pointing"
	case PoseFist:
		return "fist"
	default:
		return "neither"
	}
}

// CurlThresholds are curl ratio limits for one drawing mode.
type CurlThresholds struct {
	IndexExtended float64 // index curl must exceed this to point
	OthersCurled  float64 // middle, ring and pinky curl must stay below this to point
	FistCurled    float64 // every curl must stay below this for a fist
}

// PoseThresholds gives stricter limits to enter drawing than to stay in it.
type PoseThresholds struct {
	Idle    CurlThresholds
	Drawing CurlThresholds
}

// DefaultPoseThresholds returns the hysteretic curl limits.
func DefaultPoseThresholds() PoseThresholds {
	return PoseThresholds{
		Idle: CurlThresholds{
			IndexExtended: 0.60,
			OthersCurled:  0.50,
			FistCurled:    0.46,
		},
		Drawing: CurlThresholds{
			IndexExtended: 0.52,
			OthersCurled:  0.54,
			FistCurled:    0.50,
		},
	}
}

// For returns the limits that apply in the given mode.
func (p PoseThresholds) For(drawing bool) CurlThresholds {
	if drawing {
		return p.Drawing
	}
	return p.Idle
}

// ClassifyPose reads the hand pose. Pointing wins when a hand satisfies
// both tests.
func ClassifyPose(hand *detector.HandLandmarks, th PoseThresholds, drawing bool) Pose {
	if hand == nil {
		return PoseNeither
	}
	limits := th.For(drawing)

	var curls [len(detector.Fingers)]float64
	for i, f := range detector.Fingers {
		curls[i] = hand.Curl(f)
	}

	pointing := curls[detector.Index] > limits.IndexExtended
	fist := true
	for _, f := range detector.Fingers {
		if f != detector.Index && curls[f] >= limits.OthersCurled {
			pointing = false
		}
		if curls[f] >= limits.FistCurled {
			fist = false
		}
	}

	switch {
	case pointing:
		return PosePointing
	case fist:
		return PoseFist
	default:
		return PoseNeither
	}
}
