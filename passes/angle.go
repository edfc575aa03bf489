package passes

import "math"

// DefaultIdentityTolerance is how close an angle must be to a multiple of 2pi
// for a rotation to count as the identity.
const DefaultIdentityTolerance = 1e-10

// normalizeAngle reduces an angle modulo 2pi into the half-open interval
// (-pi, pi].
func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle > math.Pi {
		angle -= 2 * math.Pi
	} else if angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// isEffectivelyZero reports whether the angle is within tol of an integer
// multiple of 2pi.
func isEffectivelyZero(angle, tol float64) bool {
	reduced := math.Mod(math.Abs(angle), 2*math.Pi)
	return reduced < tol || 2*math.Pi-reduced < tol
}
