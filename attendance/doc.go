// Package attendance turns historical meetup attendance rows into MET
// relationships between the people who attended together.
//
// Every row is a CSV record whose fourth column names the event and whose
// following columns list attendees until the first empty cell. Each row
// yields one merge of all its attendees, which the store expands into every
// unordered pair.
package attendance
