// Package dynamo provides shared primitives for the field simulations.
//
// The package holds the small vocabulary every other engine package uses:
//
//   - [Vec3]: three-component vector used for field samples and forces
//   - [SineTable]: lookup-table sine for display-only grid sampling
//   - [ParallelFor]: chunked parallel loop over disjoint index ranges
//   - domain errors and [SimulationError]
//
// # Example
//
//	b := physics.Coil{Current: 5, Turns: 10}.FieldAt(x, y, plane)
//	f := dynamo.Vec3{X: vx, Y: vy}.Cross(b).Scale(q)
//
// # Thread Safety
//
// All values in this package are immutable or pure; they can be shared
// freely between goroutines.
package dynamo
