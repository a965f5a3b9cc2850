// Package command validates bot command parameters and applies them to the
// per-invocation movie.Meta. It performs no I/O.
package command
