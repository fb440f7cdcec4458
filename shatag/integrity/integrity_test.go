package integrity

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/shatag-go/shatag/hashing"
	"github.com/ZanzyTHEbar/shatag-go/shatag/metadata"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

var testKeys = metadata.Keys{Digest: "user.shatag.sha256", Timestamp: "user.shatag.ts"}

type fakeInfo struct {
	mode  fs.FileMode
	mtime time.Time
	size  int64
}

func (i fakeInfo) Name() string       { return "fake" }
func (i fakeInfo) Size() int64        { return i.size }
func (i fakeInfo) Mode() fs.FileMode  { return i.mode }
func (i fakeInfo) ModTime() time.Time { return i.mtime }
func (i fakeInfo) IsDir() bool        { return i.mode.IsDir() }
func (i fakeInfo) Sys() any           { return nil }

// fakeFile serves content from memory. Each Stat call returns the next
// mtime from mtimes, repeating the last one once they run out.
type fakeFile struct {
	content *bytes.Reader
	mode    fs.FileMode
	mtimes  []time.Time
	stats   int
	statErr error
	readErr error
	reads   int
}

func newFakeFile(content string, mtimes ...time.Time) *fakeFile {
	return &fakeFile{content: bytes.NewReader([]byte(content)), mtimes: mtimes}
}

func (f *fakeFile) Name() string { return "/data/fake.bin" }

func (f *fakeFile) ReadAt(p []byte, off int64) (int, error) {
	f.reads++
	if f.readErr != nil {
		return 0, f.readErr
	}
	return f.content.ReadAt(p, off)
}

func (f *fakeFile) Stat() (fs.FileInfo, error) {
	if f.statErr != nil {
		return nil, f.statErr
	}
	i := f.stats
	if i >= len(f.mtimes) {
		i = len(f.mtimes) - 1
	}
	f.stats++
	return fakeInfo{mode: f.mode, mtime: f.mtimes[i], size: f.content.Size()}, nil
}

// countingStore is an in-memory metadata.Store that records writes
type countingStore struct {
	attrs  map[string][]byte
	sets   int
	setErr error
}

func newCountingStore() *countingStore {
	return &countingStore{attrs: make(map[string][]byte)}
}

func (s *countingStore) Get(name string) ([]byte, error) {
	val, ok := s.attrs[name]
	if !ok {
		return nil, metadata.ErrAttrMissing
	}
	return val, nil
}

func (s *countingStore) Set(name string, value []byte) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.sets++
	s.attrs[name] = append([]byte(nil), value...)
	return nil
}

func (s *countingStore) Remove(name string) error {
	if _, ok := s.attrs[name]; !ok {
		return metadata.ErrAttrMissing
	}
	delete(s.attrs, name)
	return nil
}

// seed stores rec directly and resets the write counter
func (s *countingStore) seed(rec metadata.Record) {
	s.attrs[testKeys.Timestamp] = metadata.EncodeTimestamp(rec.Timestamp)
	s.attrs[testKeys.Digest] = metadata.EncodeDigest(rec.Digest)
	s.sets = 0
}

func newTestReader(t *testing.T) *Reader {
	t.Helper()
	h, err := hashing.New(hashing.SHA256, 4096)
	require.NoError(t, err)
	return NewReader(h, zerolog.Nop())
}

func newTestChecker(t *testing.T, dryRun bool) *Checker {
	t.Helper()
	codec := metadata.NewCodec(testKeys, zerolog.Nop())
	return NewChecker(codec, newTestReader(t), dryRun, zerolog.Nop())
}

func toTimestamp(t time.Time) metadata.Timestamp {
	return metadata.Timestamp{Seconds: uint64(t.Unix()), Nanoseconds: uint32(t.Nanosecond())}
}

// digestOf hashes content the same way the checker does
func digestOf(t *testing.T, content string) string {
	t.Helper()
	h, err := hashing.New(hashing.SHA256, 4096)
	require.NoError(t, err)
	d, _, err := h.Sum(bytes.NewReader([]byte(content)))
	require.NoError(t, err)
	return d
}

var errBoom = errors.New("boom")

var _ File = (*fakeFile)(nil)
