// Package filesystem provides filesystem implementations for dotlink.
//
// The engine never calls the os package directly; it goes through
// types.FS so tests can inject faults.
package filesystem
