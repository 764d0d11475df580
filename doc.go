// Package quiltarena loads the files of a quilt patch run into memory once
// and hands out read-only views that stay valid for the whole run.
//
// A patch applier touches many files: the series file, every patch, every
// source file a patch modifies, and the text of symbolic links that are
// themselves patch targets. The arena loads each of them with a single call,
// never copies what it does not have to, and releases everything in one
// place at the end of the run.
//
// # Quick Start
//
//	a := quiltarena.NewMmap()   // or quiltarena.NewHeap() for a portable copy
//	defer a.Close()
//
//	v, err := a.LoadFile("patches/0001-fix-build.patch")
//	if err != nil { ... }
//	data := v.Bytes()           // zero-copy, read-only
//
//	link, _ := a.LoadSymlinkTarget("src/current")  // link text, not the pointee
//
//	fmt.Println(a.Stats())      // Arena Statistics (loaded files: 2, total size: ... B)
//
// # Implementations
//
//   - [HeapArena]: reads each file into an owned buffer. Portable.
//   - [MmapArena]: maps each file read-only and private. No copy; symlink
//     text still goes to an owned buffer.
//
// The implementation is chosen once per run; an arena never falls back from
// mapping to copying on failure.
//
// # Views and Lifetime
//
// A [View] is a handle into the arena. Its bytes never move and are never
// modified. Views stay valid until [Arena.Close]; after that Bytes returns
// nil. Close must only be called once every goroutine that reads views has
// finished (join the workers first); the arena does not enforce this.
//
// Loads are not deduplicated: loading the same path twice registers two
// resources.
//
// # Concurrency
//
// All arena methods are safe for concurrent use. The only shared state is
// the registry, guarded by a single mutex held just long enough to append
// one entry; opening, reading and mapping happen outside the lock.
//
//	views, err := quiltarena.LoadFiles(ctx, a, paths, runtime.NumCPU())
//
// # Errors
//
// Every failed load returns a [*LoadError] that wraps the OS error verbatim
// and tells the failing step ([KindOpen], [KindMap], [KindRead],
// [KindReadlink], ...). A failed load registers nothing.
//
// # Resource Limits
//
// [WithResourceController] charges every resource against a memory budget
// and throttles copying reads:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 2 << 30})
//	a := quiltarena.NewHeap(quiltarena.WithResourceController(rc))
//
// Arenas sharing one controller can wait for each other's memory with
// [WithBudgetWait] instead of failing at once.
package quiltarena
