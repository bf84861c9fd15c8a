package geodesic

import (
	"math"

	"github.com/df07/go-blackhole-renderer/pkg/core"
)

// Newtonian is the fast pseudo-Newtonian light-bending approximation:
// a = -1.5 * h^2 * position / r^5, with h^2 the squared magnitude of
// position x direction. No trigonometry and no coordinate conversion,
// which is what makes the fast mode fast.
type Newtonian struct{}

// Acceleration returns the instantaneous curvature at the given state.
// h^2 is recomputed from the current position and direction on every call
// rather than frozen at ray initialization; freezing it changes the rendered
// light bending, so this recomputation is load-bearing for the image.
func (Newtonian) Acceleration(position, direction core.Vec3) core.Vec3 {
	h2 := position.Cross(direction).LengthSquared()
	r2 := position.LengthSquared()
	r5 := r2 * r2 * math.Sqrt(r2)
	return position.Multiply(-1.5 * h2 * core.SafeRecip(r5))
}
