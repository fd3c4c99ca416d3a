// Package preflight verifies the source and destination roots before a run
// touches anything, so that a bad root aborts the run instead of producing
// one failure per file.
package preflight
