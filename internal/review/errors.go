package review

import "errors"

var (
	// ErrNotFound wraps failures to open or read a file under review.
	ErrNotFound = errors.New("file not found or unreadable")
	// ErrInvalidArgument reports a scan root that is missing or not a directory.
	ErrInvalidArgument = errors.New("invalid argument")
)

// PanicError carries a panic recovered while reviewing one file.
type PanicError struct {
	Path  string
	Value any
}

func (e *PanicError) Error() string {
	return "internal error while reviewing " + e.Path + ": " + fmtValue(e.Value)
}
