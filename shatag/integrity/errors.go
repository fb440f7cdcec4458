package integrity

import "errors"

var (
	ErrNotRegular = errors.New("not a regular file")
	ErrStat       = errors.New("cannot stat file")
	ErrHash       = errors.New("cannot hash file content")
)
