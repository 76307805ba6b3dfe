package cookies

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SafeCopy copies a SQLite cookie file, and its -wal and -shm companions when
// present, into a fresh temporary directory. The returned cleanup removes
// that directory and must always be called.
func SafeCopy(srcPath string) (tempDir string, cleanup func(), err error) {
	if err := checkStoreFile(srcPath); err != nil {
		return "", nil, err
	}

	tempDir, err = os.MkdirTemp("", "aluminum-import-*")
	if err != nil {
		return "", nil, fmt.Errorf("cannot create temp directory: %w", err)
	}
	cleanup = func() {
		os.RemoveAll(tempDir)
	}

	baseName := filepath.Base(srcPath)
	if err := copyFile(srcPath, filepath.Join(tempDir, baseName)); err != nil {
		cleanup()
		return "", nil, err
	}
	// best-effort
	for _, suffix := range []string{"-wal", "-shm"} {
		companion := srcPath + suffix
		if _, err := os.Stat(companion); err == nil {
			_ = copyFile(companion, filepath.Join(tempDir, baseName+suffix))
		}
	}
	return tempDir, cleanup, nil
}

// checkStoreFile rejects missing, directory and empty cookie store paths.
func checkStoreFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cookie file not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a cookie file", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("cookie file at %s is empty or corrupted", path)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("cannot open source file %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cannot create destination file %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("cannot copy file: %w", err)
	}
	return nil
}
