// Package keycand enumerates placement candidates for movable keys
// and arrow blocks on a built geometry, and prices each one with the
// Fitts' Law cost kernel. It is the layer between internal/geometry
// (where things may go) and internal/milp (which of them gets
// chosen).
package keycand

import (
	"fmt"
	"math"

	"github.com/rbscholtus/kbopt/internal/geometry"
)

// Coefficient is one finger's Fitts' Law (a, b) pair, in milliseconds.
type Coefficient struct {
	A, B float64
}

// FittsCoefficients maps every finger to its Fitts' Law coefficients.
type FittsCoefficients map[geometry.Finger]Coefficient

// DefaultFittsCoefficients returns the baseline per-finger timing used
// when a configuration does not override any finger: index fastest,
// pinky slowest, thumbs in between.
func DefaultFittsCoefficients() FittsCoefficients {
	return FittsCoefficients{
		geometry.LIndex:  {A: 40, B: 120},
		geometry.RIndex:  {A: 40, B: 120},
		geometry.LMiddle: {A: 45, B: 130},
		geometry.RMiddle: {A: 45, B: 130},
		geometry.LRing:   {A: 55, B: 145},
		geometry.RRing:   {A: 55, B: 145},
		geometry.LPinky:  {A: 65, B: 160},
		geometry.RPinky:  {A: 65, B: 160},
		geometry.LThumb:  {A: 50, B: 140},
		geometry.RThumb:  {A: 50, B: 140},
	}
}

// WithOverrides returns a copy of the default coefficients with the
// given per-finger overrides applied, leaving every other finger at
// its default.
func (base FittsCoefficients) WithOverrides(overrides FittsCoefficients) FittsCoefficients {
	out := make(FittsCoefficients, len(base))
	for f, c := range base {
		out[f] = c
	}
	for f, c := range overrides {
		out[f] = c
	}
	return out
}

// fittsTime is the core Fitts' Law formula: T = a + b*log2(D/W + 1).
func fittsTime(distanceMM, widthMM, aMS, bMS float64) float64 {
	return aMS + bMS*math.Log2(distanceMM/widthMM+1.0)
}

// directionalEffectiveWidth applies the ellipse approximation: a key
// of width_u by height_u is treated as an ellipse, and the effective
// width along the direction of approach (direction_angle, measured
// from the home position to the key centre) is the ellipse's radius
// in that direction.
func directionalEffectiveWidth(widthU, heightU, directionAngle float64) float64 {
	cosPhi := math.Cos(directionAngle)
	sinPhi := math.Sin(directionAngle)
	cos2OverW2 := (cosPhi * cosPhi) / (widthU * widthU)
	sin2OverH2 := (sinPhi * sinPhi) / (heightU * heightU)
	return 1.0 / math.Sqrt(cos2OverW2+sin2OverH2)
}

// oneUHeight is the assumed key height, in u, used by the ellipse
// approximation: every key spans exactly one row regardless of its
// (variable) width.
const oneUHeight = 1.0

// ComputeFittsTime prices one placement: a key of width widthU
// centred at keyCenter, struck by finger, whose rest position is
// home. u2mm converts the u-space geometry into millimetres before
// Fitts' Law is applied, matching the physical scale the coefficients
// were calibrated against. When directional is true, the effective
// width is the ellipse approximation's radius along the direction of
// approach; when false, the effective width is the plain key width
// (Weff = widthU), unadjusted for approach angle.
func ComputeFittsTime(finger geometry.Finger, keyCenter, home geometry.Point, widthU, u2mm float64, coeffs FittsCoefficients, directional bool) (float64, error) {
	dx := keyCenter.X - home.X
	dy := keyCenter.Y - home.Y
	distanceU := math.Hypot(dx, dy)

	effectiveWidthU := widthU
	if directional {
		directionAngle := math.Atan2(dy, dx)
		effectiveWidthU = directionalEffectiveWidth(widthU, oneUHeight, directionAngle)
	}

	distanceMM := distanceU * u2mm
	widthMM := effectiveWidthU * u2mm

	c, ok := coeffs[finger]
	if !ok {
		return 0, fmt.Errorf("keycand: no Fitts coefficient defined for finger %v", finger)
	}

	return fittsTime(distanceMM, widthMM, c.A, c.B), nil
}
