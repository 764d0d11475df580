package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrInjected is the error returned by a Fault without its own Err.
var ErrInjected = errors.New("injected fault error")

// Fault defines specific failure behavior. The zero value injects nothing.
type Fault struct {
	FailOnOpen     bool
	FailOnStat     bool
	FailOnReadlink bool
	FailOnLstat    bool
	FailAfterBytes int64 // Fail reads after this many bytes were read FROM THIS FILE. 0 disables.

	// OverrideSize makes Stat report ReportedSize instead of the real size.
	OverrideSize bool
	ReportedSize int64

	Err error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// FaultyFS is a FileSystem wrapper that can inject errors.
type FaultyFS struct {
	FS    FileSystem
	mu    sync.Mutex
	rules map[string]Fault // Filename pattern -> Fault
	opens int64
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:    fs,
		rules: make(map[string]Fault),
	}
}

// AddRule adds a fault injection rule for every name containing pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// Opens returns how many files were opened successfully.
func (f *FaultyFS) Opens() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

func (f *FaultyFS) match(name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()
	var fault Fault
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
		}
	}
	return fault
}

func (f *FaultyFS) Open(name string) (File, error) {
	fault := f.match(name)
	if fault.FailOnOpen {
		return nil, &os.PathError{Op: "open", Path: name, Err: fault.err()}
	}

	file, err := f.FS.Open(name)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.opens++
	f.mu.Unlock()

	return &faultyFile{File: file, name: name, fault: fault}, nil
}

func (f *FaultyFS) Readlink(name string) (string, error) {
	if fault := f.match(name); fault.FailOnReadlink {
		return "", &os.PathError{Op: "readlink", Path: name, Err: fault.err()}
	}
	return f.FS.Readlink(name)
}

func (f *FaultyFS) Lstat(name string) (os.FileInfo, error) {
	if fault := f.match(name); fault.FailOnLstat {
		return nil, &os.PathError{Op: "lstat", Path: name, Err: fault.err()}
	}
	return f.FS.Lstat(name)
}

type faultyFile struct {
	File
	name  string
	fault Fault
	read  int64
}

func (ff *faultyFile) Read(p []byte) (n int, err error) {
	if limit := ff.fault.FailAfterBytes; limit > 0 {
		if ff.read >= limit {
			return 0, &os.PathError{Op: "read", Path: ff.name, Err: ff.fault.err()}
		}
		if rest := limit - ff.read; int64(len(p)) > rest {
			p = p[:rest]
		}
	}

	n, err = ff.File.Read(p)
	ff.read += int64(n)
	return n, err
}

func (ff *faultyFile) Stat() (os.FileInfo, error) {
	if ff.fault.FailOnStat {
		return nil, &os.PathError{Op: "stat", Path: ff.name, Err: ff.fault.err()}
	}
	fi, err := ff.File.Stat()
	if err != nil || !ff.fault.OverrideSize {
		return fi, err
	}
	return sizedInfo{FileInfo: fi, size: ff.fault.ReportedSize}, nil
}

type sizedInfo struct {
	os.FileInfo
	size int64
}

func (s sizedInfo) Size() int64 { return s.size }
