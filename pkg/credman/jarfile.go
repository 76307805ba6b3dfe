// Package credman persists cookie jars encrypted at rest.
package credman

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/TypeDummying/AIuminum/pkg/credman/encryption"
	"github.com/TypeDummying/AIuminum/pkg/jar"
	"github.com/TypeDummying/AIuminum/pkg/logger"
	"github.com/spf13/afero"
)

const jarFileMode = 0600

// ErrInvalidKey is returned when a jar key is not encryption.KeySize bytes.
var ErrInvalidKey = errors.New("invalid jar key length")

// JarFile stores a serialized jar.Jar as one AES-GCM sealed blob.
type JarFile struct {
	fs   afero.Fs
	path string
	key  []byte
	log  logger.Logger
}

// JarFileOpts contains optional parameters for NewJarFile.
type JarFileOpts struct {
	// Fs defaults to the OS filesystem.
	Fs     afero.Fs
	Logger logger.Logger
}

func NewJarFile(path string, key []byte, opts *JarFileOpts) (*JarFile, error) {
	if len(key) != encryption.KeySize {
		return nil, ErrInvalidKey
	}
	if opts == nil {
		opts = &JarFileOpts{}
	}
	f := &JarFile{
		fs:   opts.Fs,
		path: path,
		key:  append([]byte(nil), key...),
		log:  logger.OrNop(opts.Logger),
	}
	if f.fs == nil {
		f.fs = afero.NewOsFs()
	}
	return f, nil
}

// Path returns the location of the jar file.
func (f *JarFile) Path() string {
	return f.path
}

// Load merges the stored jar into j. A missing file leaves j untouched.
func (f *JarFile) Load(j *jar.Jar) error {
	sealed, err := afero.ReadFile(f.fs, f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.log.Debug("no jar file yet, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read jar file: %w", err)
	}
	data, err := encryption.DecryptValue(sealed, f.key)
	if err != nil {
		return fmt.Errorf("decrypt jar file: %w", err)
	}
	return j.Deserialize(data)
}

// Save replaces the jar file with the current contents of j. The new file
// is written next to the old one and renamed into place.
func (f *JarFile) Save(j *jar.Jar) error {
	data, err := j.Serialize()
	if err != nil {
		return err
	}
	sealed, err := encryption.EncryptBytes(data, f.key)
	encryption.Zero(data)
	if err != nil {
		return fmt.Errorf("encrypt jar: %w", err)
	}

	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("create jar dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, sealed, jarFileMode); err != nil {
		f.fs.Remove(tmp)
		return fmt.Errorf("write jar file: %w", err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		f.fs.Remove(tmp)
		return fmt.Errorf("rename jar file: %w", err)
	}
	f.log.Debug("jar saved (%d bytes)", len(sealed))
	return nil
}

// Close zeroes the key held by f.
func (f *JarFile) Close() error {
	encryption.Zero(f.key)
	return nil
}
