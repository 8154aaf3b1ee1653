package codec

import "errors"

var (
	// ErrDomain is returned for values the text encoding cannot represent.
	ErrDomain = errors.New("value out of range")
	// ErrFormat is returned for malformed tokens, lines and grids.
	ErrFormat = errors.New("malformed frame text")
)
