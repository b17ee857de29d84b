package viz

import "github.com/charmbracelet/harmonica"

// smoother eases displayed quantities toward their targets with a critically
// damped spring so the colour scale does not flicker frame to frame.
type smoother struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSmoother(fps, n int) *smoother {
	if fps < 1 {
		fps = 60
	}
	return &smoother{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		pos:    make([]float64, n),
		vel:    make([]float64, n),
	}
}

// step moves channel i one frame toward target and returns the new value.
func (s *smoother) step(i int, target float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	s.pos[i], s.vel[i] = p, v
	return p
}

// snap jumps channel i straight to value.
func (s *smoother) snap(i int, value float64) {
	s.pos[i], s.vel[i] = value, 0
}

func (s *smoother) value(i int) float64 { return s.pos[i] }
