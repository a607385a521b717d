package export

import "errors"

// ErrCancelled is returned when an export run is cancelled before
// completion. Any partially written output file has been removed.
var ErrCancelled = errors.New("export cancelled")

// FatalError marks an error that aborts the export run and invalidates any
// partial output, as opposed to degradable failures (such as losing audio)
// that the run survives.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return "fatal: " + e.Err.Error() }

func (e *FatalError) Unwrap() error { return e.Err }

func fatalf(err error) error { return &FatalError{Err: err} }

// IsFatal reports whether err carries a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
