// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing, expression
// evaluation and translation of HCL blocks into the format-agnostic
// config.Scenario.
//
// Loading happens in two passes over every discovered file: the first pass
// collects `variable` blocks so that their values (optionally overridden from
// the command line) can be exposed as `var.<name>`; the second pass decodes
// every other block with that evaluation context.
package hcl
