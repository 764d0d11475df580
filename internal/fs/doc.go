// Package fs provides the read-side filesystem abstraction used by the arenas.
//
// The package defines two key interfaces:
//
//   - [File]: an open file that can be read, stat'ed and mapped (via Fd)
//   - [FileSystem]: opens files and reads symbolic links
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// # Usage
//
// Production code uses fs.Default (which is [LocalFS]). Tests inject
// [FaultyFS] to make opens, stats, reads or readlinks fail, or to report a
// wrong file size:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("broken.patch", fs.Fault{FailAfterBytes: 16})
//
// # Design Notes
//
// This package intentionally does NOT include context.Context parameters.
// Filesystem operations are typically fast and non-interruptible at the
// syscall level.
package fs
