package skipapi

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrFetch is matched by every failed fetch, whatever the cause.
var ErrFetch = errors.New("request failed")

// SchemaError reports a response record that does not look like a skip.
type SchemaError struct {
	Index  int    // position of the record in the response
	Field  string // JSON field name, empty for whole-record problems
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid skip record %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid skip record %d: %s %s", e.Index, e.Field, e.Reason)
}

// Is makes a SchemaError match ErrFetch.
func (e *SchemaError) Is(target error) bool { return target == ErrFetch }
