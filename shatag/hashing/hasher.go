package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"

	"lukechampine.com/blake3"
)

// Supported algorithm names
const (
	SHA256 = "sha256"
	BLAKE3 = "blake3"
)

// ErrUnknownAlgorithm is returned by New for unsupported algorithm names
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Hasher turns a byte stream into a hex encoded 256-bit digest
type Hasher interface {
	// Name returns the algorithm name, e.g. "sha256"
	Name() string
	// Sum reads r until EOF and returns the lowercase hex digest together
	// with the number of bytes hashed.
	Sum(r io.Reader) (string, int64, error)
}

// StreamHasher hashes in fixed size chunks with a fresh hash.Hash per call
type StreamHasher struct {
	name      string
	newHash   func() hash.Hash
	chunkSize int
}

// New returns the Hasher for algorithm reading chunkSize bytes at a time
func New(algorithm string, chunkSize int) (*StreamHasher, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("invalid chunk size %d", chunkSize)
	}

	switch algorithm {
	case SHA256:
		return &StreamHasher{name: SHA256, newHash: sha256.New, chunkSize: chunkSize}, nil
	case BLAKE3:
		return &StreamHasher{
			name:      BLAKE3,
			newHash:   func() hash.Hash { return blake3.New(32, nil) },
			chunkSize: chunkSize,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// Algorithms lists the names accepted by New
func Algorithms() []string {
	return []string{SHA256, BLAKE3}
}

func (h *StreamHasher) Name() string {
	return h.name
}

func (h *StreamHasher) Sum(r io.Reader) (string, int64, error) {
	digest := h.newHash()
	data := make([]byte, h.chunkSize)

	var total int64
	for {
		count, err := r.Read(data)
		if count > 0 {
			digest.Write(data[:count])
			total += int64(count)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", total, err
		}
	}

	return hex.EncodeToString(digest.Sum(nil)), total, nil
}
