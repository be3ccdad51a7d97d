// Package executor runs one simulation end to end.
//
// It seeds the shared inventory from the scenario, resolves each building's
// recipes, then starts one production worker per building together with the
// termination monitor. Run returns once the monitor has raised the stop
// signal and every worker has finished its in-flight cycle and exited.
package executor
