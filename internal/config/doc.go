// Package config defines the format-agnostic scenario model consumed by the
// simulation core, along with the Loader interface implemented by concrete
// scenario formats such as HCL.
//
// The `config.Scenario` is the single source of truth for the `resolver` and
// `executor` packages. Parsing lives in separate packages.
package config
