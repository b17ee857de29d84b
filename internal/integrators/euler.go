package integrators

// Kick adds an acceleration to the velocity over one unit step.
func Kick(p *Particle, ax, ay float64) {
	p.VX += ax
	p.VY += ay
}

// Drift moves p by its current velocity over one unit step.
func Drift(p *Particle) {
	p.X += p.VX
	p.Y += p.VY
}

// SemiImplicitEuler is Kick followed by Drift, so the position update sees
// the new velocity.
func SemiImplicitEuler(p *Particle, ax, ay float64) {
	Kick(p, ax, ay)
	Drift(p)
}

// DampVelocity scales the velocity by factor.
func DampVelocity(p *Particle, factor float64) {
	p.VX *= factor
	p.VY *= factor
}

// ClampSpeed rescales the velocity to max when it is exceeded, keeping its
// direction. It reports whether the speed was clamped.
func ClampSpeed(p *Particle, max float64) bool {
	speed := p.Speed()
	if speed <= max || speed == 0 {
		return false
	}
	k := max / speed
	p.VX *= k
	p.VY *= k
	return true
}
