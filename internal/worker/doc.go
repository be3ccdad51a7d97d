// Package worker implements the production loop run by every building.
//
// # State Machine
//
// Each worker drives a small looplab/fsm machine:
//
//	selecting --reserve--> producing --finish--> committing --commit--> selecting
//	selecting --stop--> stopped
//
// The stop signal is only observed while selecting, so a cycle that has
// reserved its components always produces and commits before the worker
// exits.
package worker
