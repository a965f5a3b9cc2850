// Package preflight provides readiness checks for the filesystem paths and
// services yt2audio depends on.
//
// The serve command runs RunAll at startup and refuses to listen when a
// check fails. The deps command prints the same results next to the tool
// availability table.
package preflight
