// Package paths validates and normalizes the paths handed to a session.
//
// Queued requests carry cleaned absolute paths so that results can be keyed
// by source path and compared across engines. Relative inputs resolve against
// the process working directory. Rename targets are analysed here to decide
// whether a rename has to become a move.
package paths
