package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const maxNanoseconds = 999999999

// Keys names the two attributes a record is spread across.
type Keys struct {
	Digest    string
	Timestamp string
}

// Codec reads and writes records through a Store. Stored values look like
// this:
//
//	$ getfattr -d foo.txt
//	user.shatag.sha256="dc9fe2260fd6748b29532be0ca2750a50f9eca82046b15497f127eba6dda90e8"
//	user.shatag.ts="1560177334.020775051"
type Codec struct {
	keys   Keys
	logger zerolog.Logger
}

// NewCodec creates a codec for the given attribute names
func NewCodec(keys Keys, logger zerolog.Logger) *Codec {
	return &Codec{keys: keys, logger: logger}
}

// Keys returns the attribute names used by the codec
func (c *Codec) Keys() Keys {
	return c.keys
}

// Read returns the stored record. It never fails: unreadable or malformed
// attributes degrade to the zero timestamp and the absent digest.
func (c *Codec) Read(store Store) Record {
	var rec Record
	rec.Digest = c.readDigest(store)
	rec.Timestamp = c.readTimestamp(store)
	return rec
}

func (c *Codec) readDigest(store Store) string {
	val, err := store.Get(c.keys.Digest)
	if err != nil {
		if !errors.Is(err, ErrAttrMissing) {
			c.logger.Warn().Err(err).Str("attr", c.keys.Digest).Msg("cannot read digest attribute")
		}
		return ""
	}

	val = bytes.TrimRight(val, "\x00")
	if len(val) > DigestLength {
		c.logger.Warn().
			Str("attr", c.keys.Digest).
			Int("bytes", len(val)-DigestLength).
			Msg("ignoring trailing garbage in digest attribute")
		val = val[:DigestLength]
	}

	digest, ok := DecodeDigest(val)
	if !ok {
		c.logger.Warn().
			Str("attr", c.keys.Digest).
			Int("length", len(val)).
			Msg("digest attribute is not 64 lowercase hex characters")
		return ""
	}
	return digest
}

func (c *Codec) readTimestamp(store Store) Timestamp {
	val, err := store.Get(c.keys.Timestamp)
	if err != nil {
		if !errors.Is(err, ErrAttrMissing) {
			c.logger.Warn().Err(err).Str("attr", c.keys.Timestamp).Msg("cannot read timestamp attribute")
		}
		return Timestamp{}
	}
	ts, _ := DecodeTimestamp(val)
	return ts
}

// Write persists rec, timestamp first. A failure of either attribute is
// reported as ErrAttrWrite.
func (c *Codec) Write(store Store, rec Record) error {
	if runtime.GOOS == "darwin" {
		// fsetxattr on SMB mounts seen from macOS removes the attribute
		// instead of replacing it, so clear both before setting.
		// https://github.com/rfjakob/cshatag/issues/8
		_ = store.Remove(c.keys.Timestamp)
		_ = store.Remove(c.keys.Digest)
	}

	if err := store.Set(c.keys.Timestamp, EncodeTimestamp(rec.Timestamp)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAttrWrite, c.keys.Timestamp, err)
	}
	if err := store.Set(c.keys.Digest, EncodeDigest(rec.Digest)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAttrWrite, c.keys.Digest, err)
	}
	return nil
}

// Remove deletes both attributes. Attributes that are already gone are
// not an error.
func (c *Codec) Remove(store Store) error {
	var errs []error
	for _, name := range []string{c.keys.Timestamp, c.keys.Digest} {
		if err := store.Remove(name); err != nil && !errors.Is(err, ErrAttrMissing) {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrAttrRemove, errors.Join(errs...))
	}
	return nil
}

// EncodeTimestamp renders ts as "<seconds>.<nanoseconds>" with the
// nanoseconds zero-padded to 9 digits.
func EncodeTimestamp(ts Timestamp) []byte {
	return []byte(ts.String())
}

// DecodeTimestamp parses the timestamp attribute. The fractional part is
// optional. Anything unparsable yields the zero timestamp and false.
func DecodeTimestamp(val []byte) (Timestamp, bool) {
	s := strings.TrimRight(string(val), "\x00")
	parts := strings.SplitN(s, ".", 2)

	seconds, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Timestamp{}, false
	}
	var nanoseconds uint64
	if len(parts) > 1 {
		nanoseconds, err = strconv.ParseUint(parts[1], 10, 32)
		if err != nil || nanoseconds > maxNanoseconds {
			return Timestamp{}, false
		}
	}
	return Timestamp{Seconds: seconds, Nanoseconds: uint32(nanoseconds)}, true
}

// EncodeDigest returns the 64 byte attribute value for digest. The absent
// digest is stored as 64 zeros.
func EncodeDigest(digest string) []byte {
	if digest == "" {
		return []byte(ZeroDigest)
	}
	return []byte(digest)
}

// DecodeDigest validates an attribute value. The all-zero placeholder
// decodes to the absent digest.
func DecodeDigest(val []byte) (string, bool) {
	s := string(val)
	if !ValidDigest(s) {
		return "", false
	}
	if s == ZeroDigest {
		return "", true
	}
	return s, true
}
