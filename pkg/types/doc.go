// Package types defines the shared vocabulary of fileop.
//
// A Request is one queued file operation. An Engine executes a batch of
// requests against the platform and reports per-item outcomes through a
// Sink. Sessions in pkg/fileop build requests; engines in pkg/shell and
// pkg/portable consume them.
package types
