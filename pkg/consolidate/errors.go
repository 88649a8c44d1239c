package consolidate

import (
	"errors"
	"fmt"
)

// ErrMasterNotFound indicates the master workbook does not exist.
var ErrMasterNotFound = errors.New("master workbook not found")

// ErrInvalidConfig indicates the workbook layout configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// SaveError reports a failure to persist the output workbook. It is distinct
// from processing failures: every sheet was processed, only the final write
// failed.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("cannot save output %q: %v (close the file if it is open in another application)", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}
