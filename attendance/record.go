package attendance

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord is returned for rows too short to hold an event column.
var ErrMalformedRecord = errors.New("malformed attendance record")

const (
	eventColumn     = 3
	attendeesColumn = 4
)

// Record is one attendance row: an optional event name and the people who
// attended it.
type Record struct {
	// Event is empty when the row names no event.
	Event     string
	Attendees []string
}

// ParseRecord reads a record from the fields of one row. The first three
// columns are ignored, the fourth holds the event and the remaining columns
// list attendees up to the first empty cell.
func ParseRecord(fields []string) (Record, error) {
	if len(fields) < attendeesColumn {
		return Record{}, fmt.Errorf("%w: got %d columns, need at least %d",
			ErrMalformedRecord, len(fields), attendeesColumn)
	}

	rec := Record{Event: fields[eventColumn]}
	for _, field := range fields[attendeesColumn:] {
		if field == "" {
			break
		}
		rec.Attendees = append(rec.Attendees, field)
	}

	return rec, nil
}
