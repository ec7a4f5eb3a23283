// Package planner handles the planning phase of a slide merge.
//
// The planner turns a resolved slide selection into a deterministic
// MergePlan before any part of the target package is touched. Dry runs
// stop after planning; real merges execute the plan's operations in order.
//
// Key responsibilities:
//   - Map each selected source slide to its new slide ID in the target
//   - Record selected numbers that fall outside the source deck
//   - Collect warnings raised while the plan is executed
package planner
