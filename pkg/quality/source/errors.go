package source

import "fmt"

// LoadError reports a failure to read or decode a rule file.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load %q: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("load %q: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
