package scenario

import (
	"fmt"
	"math"

	"github.com/san-kum/fieldlab/internal/physics"
)

type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
	Advanced
)

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// Scenario is a named wave setup. Values are copied out of the catalog, so
// a Scenario is never shared mutably.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Sources     [2]physics.WaveSource
	WaveSpeed   float64
	Damping     float64
	Difficulty  Difficulty
}

// Params returns the scenario as model input.
func (s Scenario) Params() physics.WaveParams {
	return physics.WaveParams{
		Sources:   []physics.WaveSource{s.Sources[0], s.Sources[1]},
		WaveSpeed: s.WaveSpeed,
		Damping:   s.Damping,
	}
}

func pair(x1, y1, f1, p1, x2, y2, f2, p2 float64) [2]physics.WaveSource {
	return [2]physics.WaveSource{
		{X: x1, Y: y1, Frequency: f1, Amplitude: 1, Phase: p1, Active: true},
		{X: x2, Y: y2, Frequency: f2, Amplitude: 1, Phase: p2, Active: true},
	}
}

// DefaultCatalog returns the compiled-in scenarios in display order.
func DefaultCatalog() []Scenario {
	return []Scenario{
		{
			ID:          "symmetric-constructive",
			Name:        "Symmetric constructive",
			Description: "Two in-phase sources; the midline between them always reinforces.",
			Sources:     pair(30, 50, 1.5, 0, 70, 50, 1.5, 0),
			WaveSpeed:   1,
			Damping:     0.02,
			Difficulty:  Beginner,
		},
		{
			ID:          "anti-phase",
			Name:        "Anti-phase",
			Description: "Sources half a cycle apart; the midline is a node.",
			Sources:     pair(30, 50, 1.5, 0, 70, 50, 1.5, math.Pi),
			WaveSpeed:   1,
			Damping:     0.02,
			Difficulty:  Beginner,
		},
		{
			ID:          "damped-ripples",
			Name:        "Damped ripples",
			Description: "Strong attenuation keeps each source's pattern local.",
			Sources:     pair(35, 50, 2, 0, 65, 50, 2, 0),
			WaveSpeed:   1,
			Damping:     0.08,
			Difficulty:  Beginner,
		},
		{
			ID:          "beats",
			Name:        "Beats",
			Description: "Slightly detuned sources; the pattern drifts at the difference frequency.",
			Sources:     pair(30, 50, 1.5, 0, 70, 50, 1.7, 0),
			WaveSpeed:   1,
			Damping:     0.02,
			Difficulty:  Intermediate,
		},
		{
			ID:          "double-slit",
			Name:        "Double slit",
			Description: "Closely spaced sources fan out into interference fringes.",
			Sources:     pair(45, 10, 2, 0, 55, 10, 2, 0),
			WaveSpeed:   1,
			Damping:     0.01,
			Difficulty:  Intermediate,
		},
		{
			ID:          "fast-medium",
			Name:        "Fast medium",
			Description: "A fast wave speed stretches the wavelength.",
			Sources:     pair(30, 50, 2, 0, 70, 50, 2, 0),
			WaveSpeed:   3,
			Damping:     0.02,
			Difficulty:  Intermediate,
		},
		{
			ID:          "quadrature",
			Name:        "Quadrature",
			Description: "A quarter-cycle offset shifts the fringes toward the lagging source.",
			Sources:     pair(30, 50, 1.5, 0, 70, 50, 1.5, math.Pi/2),
			WaveSpeed:   1,
			Damping:     0.02,
			Difficulty:  Advanced,
		},
	}
}
