package integrity

import (
	"github.com/ZanzyTHEbar/shatag-go/shatag/metadata"

	"github.com/rs/zerolog"
)

// State is the outcome of checking one file
type State int

const (
	// StateUnknown means the check stopped before a classification
	StateUnknown State = iota
	// StateOK: timestamp and digest match the stored record
	StateOK
	// StateOutdated: the file was modified since the record was stored
	StateOutdated
	// StateCorrupt: the content changed but the modification time did not
	StateCorrupt
	// StateConcurrentChange: the digest differed but the file was modified
	// while it was being hashed. Not reported.
	StateConcurrentChange
)

func (s State) String() string {
	switch s {
	case StateOK:
		return "ok"
	case StateOutdated:
		return "outdated"
	case StateCorrupt:
		return "corrupt"
	case StateConcurrentChange:
		return "concurrent modification"
	default:
		return "unknown"
	}
}

// Reported reports whether the state produces a status line
func (s State) Reported() bool {
	return s == StateOK || s == StateOutdated || s == StateCorrupt
}

// Result describes one check. Stored and Actual are always filled once the
// state is known.
type Result struct {
	State     State
	Stored    metadata.Record
	Actual    metadata.Record
	Persisted bool
}

// Checker runs the comparison for one file at a time
type Checker struct {
	codec  *metadata.Codec
	reader *Reader
	dryRun bool
	logger zerolog.Logger
}

// NewChecker wires a checker. With dryRun set nothing is ever written.
func NewChecker(codec *metadata.Codec, reader *Reader, dryRun bool, logger zerolog.Logger) *Checker {
	return &Checker{
		codec:  codec,
		reader: reader,
		dryRun: dryRun,
		logger: logger,
	}
}

// Check classifies f against the record held in store and persists the
// actual record when the file is outdated or corrupt.
//
// A failed write is returned (wrapping metadata.ErrAttrWrite) together
// with the fully populated result, so callers can still report the state.
func (c *Checker) Check(f File, store metadata.Store) (Result, error) {
	var res Result
	res.Stored = c.codec.Read(store)

	actual, err := c.reader.Actual(f)
	if err != nil {
		return res, err
	}
	res.Actual = actual

	if res.Stored.Timestamp != actual.Timestamp {
		res.State = StateOutdated
		return c.persist(f, store, res)
	}

	if res.Stored.Digest == actual.Digest {
		res.State = StateOK
		return res, nil
	}

	// Same timestamp, different content. Only call it corruption when the
	// file still carries the stored timestamp after hashing.
	now, err := c.reader.Timestamp(f)
	if err != nil {
		return res, err
	}
	if now != res.Stored.Timestamp {
		res.State = StateConcurrentChange
		c.logger.Debug().
			Str("file", f.Name()).
			Str("stored", res.Stored.Timestamp.String()).
			Str("current", now.String()).
			Msg("file modified while hashing, skipping")
		return res, nil
	}

	res.State = StateCorrupt
	return c.persist(f, store, res)
}

func (c *Checker) persist(f File, store metadata.Store, res Result) (Result, error) {
	if c.dryRun {
		c.logger.Info().Str("file", f.Name()).Str("state", res.State.String()).Msg("dry run, not updating attributes")
		return res, nil
	}
	if err := c.codec.Write(store, res.Actual); err != nil {
		return res, err
	}
	res.Persisted = true
	return res, nil
}
