package version

import "fmt"

// ParseError is returned when a version or version requirement cannot be interpreted. Matching treats this as
// fatal: skipping the package would silently exclude it from the audit.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse version %q: %+v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
