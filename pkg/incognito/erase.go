package incognito

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

type (
	// EraseStartHandlerFunc is called once before any file is touched with
	// the number of files and bytes to overwrite.
	EraseStartHandlerFunc func(files int, bytes int64)
	// EraseProgressHandlerFunc is called after each overwrite write.
	EraseProgressHandlerFunc func(n int)
	// EraseFileHandlerFunc is called after each file is removed.
	EraseFileHandlerFunc func()
	// EraseCompleteHandlerFunc is called when the root has been handled.
	EraseCompleteHandlerFunc func(err error)
)

// EraseHandlers observe a SecureErase run. Nil handlers are ignored.
type EraseHandlers struct {
	StartHandler    EraseStartHandlerFunc
	ProgressHandler EraseProgressHandlerFunc
	FileHandler     EraseFileHandlerFunc
	CompleteHandler EraseCompleteHandlerFunc
}

func (h *EraseHandlers) setDefault() {
	if h.StartHandler == nil {
		h.StartHandler = func(int, int64) {}
	}
	if h.ProgressHandler == nil {
		h.ProgressHandler = func(int) {}
	}
	if h.FileHandler == nil {
		h.FileHandler = func() {}
	}
	if h.CompleteHandler == nil {
		h.CompleteHandler = func(error) {}
	}
}

var eraseRand io.Reader = rand.Reader

const eraseChunk = 32 * 1024

type eraseEntry struct {
	path string
	size int64
}

// SecureErase removes root from fsys after overwriting every regular file
// below it with random bytes of the same length. Directories are removed
// bottom-up and root last. The overwrite is best-effort; it does not defeat
// wear levelling or copy-on-write snapshots.
//
// Individual failures do not stop the run; they are joined into the
// returned error. When ctx is canceled the remaining overwrites are skipped,
// the tree is still removed and ctx.Err() is returned.
func SecureErase(ctx context.Context, fsys afero.Fs, root string, h *EraseHandlers) error {
	var handlers EraseHandlers
	if h != nil {
		handlers = *h
	}
	handlers.setDefault()

	var (
		files []eraseEntry
		dirs  []string
		errs  []error
		total int64
	)
	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			if !os.IsNotExist(err) {
				errs = append(errs, err)
			}
			return nil
		}
		switch {
		case info.IsDir():
			dirs = append(dirs, path)
		case info.Mode().IsRegular():
			files = append(files, eraseEntry{path, info.Size()})
			total += info.Size()
		default:
			files = append(files, eraseEntry{path, 0})
		}
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	handlers.StartHandler(len(files), total)

	for _, f := range files {
		if ctx.Err() == nil && f.size > 0 {
			if err := overwrite(ctx, fsys, f, handlers.ProgressHandler); err != nil && ctx.Err() == nil {
				errs = append(errs, err)
			}
		}
		if err := fsys.Remove(f.path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
		handlers.FileHandler()
	}

	// Walk visits parents before children, so reverse order is bottom-up
	// and ends with root.
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := fsys.Remove(dirs[i]); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	if ok, _ := afero.Exists(fsys, root); ok {
		if err := fsys.RemoveAll(root); err != nil {
			errs = append(errs, err)
		}
	}

	if err := ctx.Err(); err != nil {
		handlers.CompleteHandler(err)
		return err
	}
	err = errors.Join(errs...)
	handlers.CompleteHandler(err)
	return err
}

func overwrite(ctx context.Context, fsys afero.Fs, f eraseEntry, progress EraseProgressHandlerFunc) error {
	file, err := fsys.OpenFile(f.path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	buf := make([]byte, eraseChunk)
	var written int64
	for written < f.size {
		if err := ctx.Err(); err != nil {
			file.Close()
			return err
		}
		n := int64(len(buf))
		if rem := f.size - written; rem < n {
			n = rem
		}
		if _, err := io.ReadFull(eraseRand, buf[:n]); err != nil {
			file.Close()
			return fmt.Errorf("random source: %w", err)
		}
		m, err := file.WriteAt(buf[:n], written)
		written += int64(m)
		progress(m)
		if err != nil {
			file.Close()
			return err
		}
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// withoutPath strips the path from filesystem errors so that log lines do
// not reveal where session files lived.
func withoutPath(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		return le.Err
	}
	return err
}

func countErrors(err error) int {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return len(j.Unwrap())
	}
	return 1
}
