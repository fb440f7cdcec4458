package metadata

import "errors"

// Errors returned by the attribute store and codec
var (
	ErrAttrMissing = errors.New("attribute does not exist")
	ErrAttrWrite   = errors.New("failed to write integrity attributes")
	ErrAttrRemove  = errors.New("failed to remove integrity attributes")
)
