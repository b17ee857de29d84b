package analysis

import (
	"math"

	"github.com/san-kum/fieldlab/internal/integrators"
	"github.com/san-kum/fieldlab/internal/physics"
)

// TrajectoryDivergence estimates how fast two particles that start
// perturbation apart separate in src, as the mean of ln(d/d0) per tick:
//
//	λ ≈ (1/n) Σ ln(|δx(t)|/|δx(0)|) / t
//
// Accumulation stops once the gap saturates at a tenth of the plane, since
// the walls bound it from then on.
func TrajectoryDivergence(
	src physics.Source,
	plane physics.Plane,
	p integrators.Particle,
	perturbation float64,
	ticks int,
	chargeSpeed float64,
) float64 {
	if perturbation <= 0 || ticks <= 0 {
		return 0
	}

	sys := integrators.NewSystem(plane)
	sys.Reset(0, integrators.AllPositive, chargeSpeed)
	sys.Inject(p)
	q := p
	q.X += perturbation
	sys.Inject(q)

	saturation := 0.1 * math.Min(plane.Width, plane.Height)
	sumRate := 0.0
	count := 0
	for t := 1; t <= ticks; t++ {
		sys.Step(src)
		a, _ := sys.Particle(0)
		b, _ := sys.Particle(1)
		sep := math.Hypot(b.X-a.X, b.Y-a.Y)
		if sep > saturation {
			break
		}
		if sep > 0 {
			sumRate += math.Log(sep/perturbation) / float64(t)
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return sumRate / float64(count)
}
