package datasource

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when an upstream answers but holds no usable data
var ErrNotFound = errors.New("no data found")

// StatusError reports a non-200 upstream response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// IsStatusError reports whether err wraps a StatusError
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
