// Package wall computes LED video-wall layouts.
//
// Given a module type, a processor type and a requested wall size, [Compute]
// resolves the module grid, matches the resolution to a standard aspect
// ratio, derives per-output capacity, splits the grid into processor bands,
// builds the serpentine cable path and slices it into output groups. The
// result also carries the physical consequences of the build: weight, power,
// rigging load, pixel pitch and viewing distance.
//
// # Pipeline
//
// The computation runs leaf-first:
//
//	ResolveGrid     -> Grid (modules, centimeters, pixels)
//	AnalyzeAspect   -> closest standard ratio, letterbox / pillarbox
//	ComputeCapacity -> modules per output
//	Allocate        -> processor bands over whole lines
//	BuildPath       -> serpentine (boustrophedon) module order
//	GroupOutputs    -> per-output module chains
//	Recommend       -> cheapest alternative processor
//	ComputePhysical -> weight, power, rigging, pitch
//
// Each stage is exported and independently testable. [Compute] wires them
// together and never fails: degenerate inputs are clamped to a minimal
// viable allocation and reported through [Result.Warnings] and the
// sufficiency flags.
//
// # Lines and Bands
//
// With horizontal wiring a line is a row of the grid; with vertical wiring
// it is a column. A processor always owns whole lines, so cable runs never
// cross between processors. Bands are half-open ranges [StartLine, EndLine).
//
// # Purity
//
// The package holds no state. Inputs are values, results are freshly
// allocated, and concurrent calls are safe.
package wall
