// Package types defines the core types and interfaces used throughout dotlink.
// This includes the managed resource description, the classified resource
// states, the reconciliation actions and the FS abstraction the engine
// performs all of its filesystem calls through.
package types
