// Package physics provides the two field models behind the experiments.
//
// Both models are pure functions of their inputs and safe to call from any
// goroutine:
//
//   - [Interference]: scalar superposition of damped point wave sources
//     on the normalized [0,100]² plane, with [Classify] and [SampleGrid]
//   - [Source]: magnetic field topologies ([Wire], [Coil], [BarMagnet])
//     evaluated with FieldAt on a pixel [Plane]
//
// # Singularities
//
// Every distance that ends up in a denominator is floored at [MinDistance],
// so queries placed exactly on a wire, coil centre or pole stay finite:
//
//	b := physics.BarMagnet{Current: 5}.FieldAt(nx, ny, physics.DefaultPlane)
//	// b.IsFinite() == true
package physics
