package rewriting

import "fmt"

// APICallError represents a failed call to the rewriting model
type APICallError struct {
	Op      string
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	prefix := "API call failed"
	if e.Op != "" {
		prefix = fmt.Sprintf("API call failed (%s)", e.Op)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
