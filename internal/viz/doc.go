// Package viz renders fieldlab simulations in the terminal.
//
// The live view is a Bubble Tea program driven by the scheduled tick
// contract: each frame calls [sim.Simulator.Tick], and stopping the clock
// drops the pending tick instead of letting it fire.
//
//   - [Model]: live view of one simulator, wave plane or magnetic field
//   - [App]: menu over the scenario catalog and the field variants
//   - [Canvas]: braille canvas used for particles and their trails
//
// # Key Bindings
//
//	Space   - Start/stop the clock
//	+ / -   - Speed multiplier
//	N       - Next wave scenario
//	F       - Cycle field variant
//	Up/Down - Field current
//	P / C   - Toggle particles / cycle charge mode
//	T       - Cycle color themes
//	?       - Show help overlay
package viz
