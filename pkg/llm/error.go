package llm

import "fmt"

// GenerationError is returned when the generation endpoint rejects a request
// or the transport fails. The pipeline never surfaces it to clients; it
// routes the request to the deterministic fallback instead.
type GenerationError struct {
	// Status is the HTTP status code, 0 for transport failures.
	Status int

	// Body is the response body for non-success statuses.
	Body string

	// Err is the underlying transport error, if any.
	Err error
}

func (e GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation request failed: %v", e.Err)
	}

	return fmt.Sprintf("generation endpoint returned status %d: %s", e.Status, e.Body)
}

func (e GenerationError) Unwrap() error {
	return e.Err
}
