package ids

import "github.com/segmentio/ksuid"

// New returns a sortable unique id. Login audit rows are keyed with these so
// the active-session row can reference its audit row without a round-trip.
func New() string {
	return ksuid.New().String()
}
