package resolve

import "errors"

var (
	// ErrInvalidPathMapping marks a malformed path-mapping table.
	ErrInvalidPathMapping = errors.New("invalid path mapping")
	// ErrInvalidTSConfig marks a tsconfig file that cannot be read or parsed.
	ErrInvalidTSConfig = errors.New("invalid tsconfig")
)
