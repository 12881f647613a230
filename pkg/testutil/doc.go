// Package testutil provides utilities for testing dotlink components.
//
// Key components:
//   - TestEnvironment: isolated home and dotfiles directories under t.TempDir
//   - FaultFS: a types.FS wrapper that fails selected operations on selected paths
//   - Snapshot: a recursive description of a directory tree, used to prove
//     that an operation left the filesystem untouched
//
// All test data is defined inline; each test is isolated with no shared state.
package testutil
