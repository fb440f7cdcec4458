package integrity

import (
	"fmt"
	"io"
	"io/fs"
	"math"
	"time"

	"github.com/ZanzyTHEbar/shatag-go/shatag/hashing"
	"github.com/ZanzyTHEbar/shatag-go/shatag/metadata"

	"github.com/rs/zerolog"
)

// File is the part of *os.File the reader needs. Content is read through
// ReadAt so the current file offset does not matter.
type File interface {
	io.ReaderAt
	Stat() (fs.FileInfo, error)
	Name() string
}

// Reader computes the actual record of a file from its live state
type Reader struct {
	hasher hashing.Hasher
	logger zerolog.Logger
}

// NewReader creates a Reader using hasher for the content digest
func NewReader(hasher hashing.Hasher, logger zerolog.Logger) *Reader {
	return &Reader{hasher: hasher, logger: logger}
}

// Timestamp returns the current modification time of f. Anything but a
// regular file is rejected with ErrNotRegular.
func (r *Reader) Timestamp(f File) (metadata.Timestamp, error) {
	info, err := f.Stat()
	if err != nil {
		return metadata.Timestamp{}, fmt.Errorf("%w %s: %w", ErrStat, f.Name(), err)
	}
	if !info.Mode().IsRegular() {
		return metadata.Timestamp{}, fmt.Errorf("%w: %s", ErrNotRegular, f.Name())
	}

	mtime := info.ModTime()
	return metadata.Timestamp{
		Seconds:     uint64(mtime.Unix()),
		Nanoseconds: uint32(mtime.Nanosecond()),
	}, nil
}

// Actual returns the timestamp and content digest of f.
//
// The timestamp is captured before hashing. A write that lands while the
// content is being read therefore leaves the returned timestamp older than
// the file's, which is what the checker's re-read detects.
func (r *Reader) Actual(f File) (metadata.Record, error) {
	ts, err := r.Timestamp(f)
	if err != nil {
		return metadata.Record{}, err
	}

	start := time.Now()
	digest, n, err := r.hasher.Sum(io.NewSectionReader(f, 0, math.MaxInt64))
	if err != nil {
		return metadata.Record{}, fmt.Errorf("%w %s: %w", ErrHash, f.Name(), err)
	}

	r.logger.Debug().
		Str("file", f.Name()).
		Str("algorithm", r.hasher.Name()).
		Int64("bytes", n).
		Dur("elapsed", time.Since(start)).
		Msg("hashed file content")

	return metadata.Record{Timestamp: ts, Digest: digest}, nil
}
