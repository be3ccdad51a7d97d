// Package clock abstracts the passage of time for workers and the
// termination monitor so that simulations can run against the wall clock in
// production and against a manually advanced clock in tests.
package clock
