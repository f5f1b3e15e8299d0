package sources

import (
	"fmt"

	"menumerge/internal/entity"
)

// InputError reports an input file that could not be read or decoded.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for CLI exit handling.
func (e *InputError) ErrorKind() string { return entity.KindInput }
