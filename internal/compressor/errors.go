// Package compressor implements the one-stage polytropic calculation
// (spec.md §4.4, component C4) and the single-speed, variable-speed,
// simplified-variable-speed, and multiple-streams-and-pressures train
// solvers (spec.md §4.5, component C5).
package compressor

import "errors"

// ErrStageNonConvergent is spec.md's `StageNonConvergent`: the inlet
// average Z/kappa iteration (§4.4 step 4-7, tolerance 1e-4, 50 iterations)
// did not converge.
var ErrStageNonConvergent = errors.New("compressor: stage polytropic iteration did not converge")

// ErrAboveCapacity is spec.md's `AboveCapacity`: the train cannot reach
// the requested discharge pressure even at maximum speed.
var ErrAboveCapacity = errors.New("compressor: train cannot reach the requested discharge pressure")

// ErrAboveMaxPower is spec.md's `AboveMaxPower`: the MAXIMUM_POWER
// constraint was exceeded.
var ErrAboveMaxPower = errors.New("compressor: shaft power exceeds the configured maximum")

// ErrInvalidIntermediatePressure is spec.md's
// `InvalidIntermediatePressure`: an interstage control pressure is
// infeasible given the train's inlet/outlet targets.
var ErrInvalidIntermediatePressure = errors.New("compressor: interstage control pressure is infeasible")

// ErrInvalidDischargePressure is spec.md's `InvalidDischargePressure`.
var ErrInvalidDischargePressure = errors.New("compressor: discharge pressure is infeasible")
