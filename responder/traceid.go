package responder

import "github.com/oklog/ulid/v2"

// newTraceID mints a sortable identifier for requests that arrive without a
// correlation id. ulid.Make is safe for concurrent use.
func newTraceID() string {
	return ulid.Make().String()
}
