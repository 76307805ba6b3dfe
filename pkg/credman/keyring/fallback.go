package keyring

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	keyFileName = "jar.key"
	keyFileMode = 0600
)

// FileKeyStore keeps the key hex-encoded in a 0600 file inside configDir.
type FileKeyStore struct {
	configDir string
}

var (
	fileWriteFile = os.WriteFile
	fileReadFile  = os.ReadFile
	fileRemove    = os.Remove
	fileRename    = os.Rename
	fileMkdirAll  = os.MkdirAll
)

func NewFileKeyStore(configDir string) *FileKeyStore {
	return &FileKeyStore{configDir: configDir}
}

// Path returns the location of the key file.
func (f *FileKeyStore) Path() string {
	return filepath.Join(f.configDir, keyFileName)
}

// SetKey generates a new key and replaces the key file atomically by writing
// a sibling temp file and renaming it over the old one.
func (f *FileKeyStore) SetKey() ([]byte, error) {
	if err := fileMkdirAll(f.configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	key := make([]byte, KeySize)
	if _, err := randRead(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	tmp := f.Path() + ".tmp"
	if err := fileWriteFile(tmp, []byte(fmt.Sprintf("%x", key)), keyFileMode); err != nil {
		fileRemove(tmp)
		return nil, fmt.Errorf("write key: %w", err)
	}
	if err := fileRename(tmp, f.Path()); err != nil {
		fileRemove(tmp)
		return nil, fmt.Errorf("rename key file: %w", err)
	}
	return key, nil
}

func (f *FileKeyStore) GetKey() ([]byte, error) {
	data, err := fileReadFile(f.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("key file: %w", ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return decodeKey(strings.TrimSpace(string(data)))
}

func (f *FileKeyStore) DeleteKey() error {
	return fileRemove(f.Path())
}
