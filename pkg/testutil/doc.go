// Package testutil provides utilities for testing fileop components.
//
// Key components:
//   - MemFS: afero-backed in-memory filesystem with fixture helpers
//   - FakeTrasher: records recycled items and removes them from a MemFS
//   - RecordingSink: captures the progress events an engine reports
//   - MockEngine: testify mock of types.Engine for session tests
//
// Usage guidelines:
//   - Engine and session tests should run on MemFS for speed and isolation
//   - Only pkg/filesystem and pkg/trash touch the real filesystem
//   - All test data should be defined inline, not in external files
package testutil
