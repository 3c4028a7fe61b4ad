// Package heat implements an explicit finite-difference solver for the 2D
// heat equation over a rectangular room.
//
// The scheme is FTCS (Forward Time Centered Space) with Robin boundary
// conditions on all four walls. Left and right walls may carry a window
// sub-span with a higher conductance. A thermostat senses the mean
// temperature of a configurable region and switches rectangular radiator
// regions on or off each step; consumed energy is accumulated in Joules.
//
// A [Solver] owns all mutable state and steps synchronously:
//
//	s, err := heat.NewSolver(cfg)
//	s.SetWindows(true, false)
//	s.AddRadiator(0.2, 1.5, 0.2, 1.0)
//	s.Run(steps)
//	fmt.Println(s.Field().Mean(), s.TotalEnergy())
//
// Stepping is deterministic and single-threaded. Stability of the explicit
// scheme requires dt <= 0.34*dx^2/alpha; [Config.Stable] exposes the check.
package heat
