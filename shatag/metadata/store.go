package metadata

import (
	"errors"
	"os"

	"github.com/pkg/xattr"
)

// Store is a per-file key/value attribute store. Get returns ErrAttrMissing
// when the attribute does not exist.
type Store interface {
	Get(name string) ([]byte, error)
	Set(name string, value []byte) error
	Remove(name string) error
}

// FileStore keeps attributes as filesystem extended attributes of an open
// file. The file stays owned by the caller.
type FileStore struct {
	file *os.File
}

// NewFileStore creates a Store backed by the extended attributes of f
func NewFileStore(f *os.File) *FileStore {
	return &FileStore{file: f}
}

// Get reads the named attribute from the file
func (s *FileStore) Get(name string) ([]byte, error) {
	val, err := xattr.FGet(s.file, name)
	if err != nil {
		if errors.Is(err, xattr.ENOATTR) {
			return nil, ErrAttrMissing
		}
		return nil, err
	}
	return val, nil
}

// Set creates or replaces the named attribute
func (s *FileStore) Set(name string, value []byte) error {
	return xattr.FSet(s.file, name, value)
}

// Remove deletes the named attribute. Removing a missing attribute returns
// ErrAttrMissing.
func (s *FileStore) Remove(name string) error {
	err := xattr.FRemove(s.file, name)
	if err != nil && errors.Is(err, xattr.ENOATTR) {
		return ErrAttrMissing
	}
	return err
}
