// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle: load and validate a
// scenario, run the production simulation, publish health and metrics, and
// write the report. It is decoupled from any specific entrypoint like a CLI.
package app
