// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election keeps Election.status truthful relative to time.

The state machine is scheduled → active → completed. Time only moves
elections forward; completed is terminal. Admin overrides (set-status,
start-now) live in the handlers and write directly; a label-only
override that disagrees with the window is reverted by the next
reconciliation.

ReconcileStatus is the single time-comparison function in the codebase.
Every read and write path that cares about the window goes through it,
either directly (vote casting, single-election reads) or via Sweep
(the periodic bulk promotion started from main).
*/
package election
