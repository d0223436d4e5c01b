// Package fluid provides the core field primitives for the 2D
// incompressible flow engine.
//
// The package defines the data types shared by every solver stage:
//
//   - [Grid]: cell-centered velocity, pressure and tracer fields plus a
//     static solid occupancy mask
//   - [Snapshot]: deep-copied, read-only view of a Grid for renderers
//   - sentinel errors for the engine's failure taxonomy
//
// Fields are stored as flat slices indexed i*Ny+j. All stages mutate the
// Grid in place; nothing in this package allocates per tick.
//
// # Thread Safety
//
// A Grid is exclusively owned by its simulation loop and is NOT
// thread-safe. Renderers must read through [Grid.Snapshot] between ticks.
package fluid
