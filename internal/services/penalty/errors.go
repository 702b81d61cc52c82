package penalty

import "errors"

// Service errors
var (
	ErrInvalidCatalog = errors.New("invalid penalty catalog")
)
