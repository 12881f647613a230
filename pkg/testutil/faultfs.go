package testutil

import (
	"fmt"
	"io/fs"
	"sync"

	"github.com/arthur-debert/dotlink/pkg/types"
)

// Op names an FS method for fault injection
type Op string

const (
	OpStat      Op = "Stat"
	OpLstat     Op = "Lstat"
	OpReadFile  Op = "ReadFile"
	OpWriteFile Op = "WriteFile"
	OpChmod     Op = "Chmod"
	OpMkdirAll  Op = "MkdirAll"
	OpReadDir   Op = "ReadDir"
	OpSymlink   Op = "Symlink"
	OpReadlink  Op = "Readlink"
	OpRemove    Op = "Remove"
	OpRemoveAll Op = "RemoveAll"
	OpRename    Op = "Rename"
)

// Call records one FS call
type Call struct {
	Op   Op
	Path string
}

// FaultFS wraps a types.FS, records every call and fails the ones
// registered with Fail. The path matched is the first path argument
// (the new name for Symlink, the destination for Rename).
type FaultFS struct {
	types.FS

	mu     sync.Mutex
	faults map[Call]error
	calls  []Call
}

// NewFaultFS wraps inner
func NewFaultFS(inner types.FS) *FaultFS {
	return &FaultFS{FS: inner, faults: map[Call]error{}}
}

// Fail makes op on path return err (a generic error when err is nil)
func (f *FaultFS) Fail(op Op, path string, err error) *FaultFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		err = fmt.Errorf("injected %s failure on %s", op, path)
	}
	f.faults[Call{Op: op, Path: path}] = err
	return f
}

// Calls returns the recorded calls
func (f *FaultFS) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Mutations returns the recorded calls that change the filesystem
func (f *FaultFS) Mutations() []Call {
	var out []Call
	for _, c := range f.Calls() {
		switch c.Op {
		case OpWriteFile, OpChmod, OpMkdirAll, OpSymlink, OpRemove, OpRemoveAll, OpRename:
			out = append(out, c)
		}
	}
	return out
}

func (f *FaultFS) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := Call{Op: op, Path: path}
	f.calls = append(f.calls, c)
	return f.faults[c]
}

func (f *FaultFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FaultFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.check(OpLstat, name); err != nil {
		return nil, err
	}
	return f.FS.Lstat(name)
}

func (f *FaultFS) ReadFile(name string) ([]byte, error) {
	if err := f.check(OpReadFile, name); err != nil {
		return nil, err
	}
	return f.FS.ReadFile(name)
}

func (f *FaultFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check(OpWriteFile, name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

func (f *FaultFS) Chmod(name string, mode fs.FileMode) error {
	if err := f.check(OpChmod, name); err != nil {
		return err
	}
	return f.FS.Chmod(name, mode)
}

func (f *FaultFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FaultFS) Symlink(oldname, newname string) error {
	if err := f.check(OpSymlink, newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *FaultFS) Readlink(name string) (string, error) {
	if err := f.check(OpReadlink, name); err != nil {
		return "", err
	}
	return f.FS.Readlink(name)
}

func (f *FaultFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FaultFS) RemoveAll(path string) error {
	if err := f.check(OpRemoveAll, path); err != nil {
		return err
	}
	return f.FS.RemoveAll(path)
}

func (f *FaultFS) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, newpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}
