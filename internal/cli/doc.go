// Package cli turns command-line arguments into an app.Config. It owns flag
// definitions, the usage text and the mapping of bad input to an ExitError
// carrying exit code 2.
package cli
