// Package meetup answers requests about who met whom.
//
// A Service reads from a graphs.GraphStore, extracts the people in every
// result row, serializes them into a graph description and hands that to a
// Renderer. Each stage finishes before the next starts. Handle wraps the
// service for chat commands and never fails: every error becomes a Reply
// carrying the text of UserMessage.
package meetup
