package metadata

import (
	"fmt"
	"strings"
)

// DigestLength is the length of a hex encoded 256-bit digest.
const DigestLength = 64

// ZeroDigest stands in for a missing digest on disk and in reports.
var ZeroDigest = strings.Repeat("0", DigestLength)

// Timestamp is a file modification time split the way it is stored in the
// timestamp attribute.
type Timestamp struct {
	Seconds     uint64
	Nanoseconds uint32
}

// String renders the timestamp as seconds (at least 10 digits) and a
// 9 digit nanosecond part, e.g. 1560177334.020775051.
func (ts Timestamp) String() string {
	return fmt.Sprintf("%010d.%09d", ts.Seconds, ts.Nanoseconds)
}

// IsZero reports whether both components are zero.
func (ts Timestamp) IsZero() bool {
	return ts.Seconds == 0 && ts.Nanoseconds == 0
}

// Record is the unit that gets compared and persisted: a modification time
// and the content digest that was valid at that time.
//
// An empty Digest marks the record as absent. The timestamp alone cannot
// tell absence apart from a real zero mtime.
type Record struct {
	Timestamp
	Digest string
}

// IsAbsent reports whether no digest is known for the record.
func (r Record) IsAbsent() bool {
	return r.Digest == ""
}

// Equal reports whether both timestamps are bit-identical and the digests
// are identical strings.
func (r Record) Equal(other Record) bool {
	return r.Timestamp == other.Timestamp && r.Digest == other.Digest
}

// String implements fmt.Stringer using Format.
func (r Record) String() string {
	return Format(r)
}

// Format renders a record for human-facing reports:
//
//	dc9fe2260fd6748b29532be0ca2750a50f9eca82046b15497f127eba6dda90e8 1560177334.020775051
func Format(r Record) string {
	digest := r.Digest
	if digest == "" {
		digest = ZeroDigest
	}
	return digest + " " + r.Timestamp.String()
}

// ValidDigest reports whether s is exactly 64 lowercase hex characters.
func ValidDigest(s string) bool {
	if len(s) != DigestLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
