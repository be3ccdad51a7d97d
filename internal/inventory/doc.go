// Package inventory provides the shared stock of products that every
// production worker draws from and delivers to.
//
// # Concurrency Model
//
// All reads and writes go through a single sync.Mutex, not one lock per
// product. A reservation checks and decrements every component of a recipe
// in one critical section, so two workers can never jointly overdraw a
// component whose stock covers only one of them.
package inventory
