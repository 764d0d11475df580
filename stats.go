package quiltarena

import "fmt"

// Stats is a snapshot of an arena's registry.
type Stats struct {
	LoadedFiles int   // number of registered resources
	TotalSize   int64 // sum of all resource sizes in bytes
	MappedFiles int
	OwnedFiles  int
}

// String renders the stats for diagnostic output.
func (s Stats) String() string {
	return fmt.Sprintf("Arena Statistics (loaded files: %d, total size: %d B)", s.LoadedFiles, s.TotalSize)
}
