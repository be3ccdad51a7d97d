// Package resolver turns the scenario's recipe book and projects into the
// concrete, worker-local recipe lists each building is allowed to run.
//
// A project's abilities bind recipe names to durations, which lets the same
// base recipe run at different speeds in different buildings. Resolution
// clones the global recipe and overrides its duration; the global recipe is
// never modified.
//
// References that point nowhere (an ability naming an unknown recipe, a
// building naming an unknown project) are not errors. They contribute no
// recipes and are reported at debug level only.
package resolver
