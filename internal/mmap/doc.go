// Package mmap maps whole files into memory for zero-copy reads.
//
// # Usage
//
//	f, _ := os.Open("0001-fix.patch")
//	defer f.Close()
//
//	r, err := mmap.Map(f, size)
//	if err != nil { ... }
//	defer r.Unmap()
//
//	data := r.Bytes()
//
// The descriptor can be closed as soon as Map returns; the mapping keeps the
// pages resident.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with PROT_READ and MAP_PRIVATE
//   - Windows: CreateFileMapping/MapViewOfFile with FILE_MAP_COPY
//   - Everything else: Map returns ErrUnsupported
//
// # Safety
//
// This package is the only place that deals with mapped addresses. Regions
// are mapped read-only and private and nothing ever writes through them, so
// a Region may be shared by any number of goroutines. Unmap must only be
// called after every reader is done with Bytes().
//
// If another process truncates a mapped file, reading past the new end
// raises SIGBUS. This is an accepted limitation.
package mmap
