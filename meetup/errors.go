package meetup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meetupgraph/meetupgraph/graphs"
	"github.com/meetupgraph/meetupgraph/render"
)

// ArgumentError reports a missing or unusable command argument.
type ArgumentError struct {
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %q %s", e.Name, e.Reason)
}

// UserMessage converts a request failure into text that can be shown to the
// person who issued the command.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var argErr *ArgumentError
	var missing *graphs.MissingPropertyError
	var renderErr *render.Error

	switch {
	case errors.As(err, &argErr):
		return "Invalid command: " + argErr.Error() + "."
	case errors.As(err, &missing):
		return fmt.Sprintf("Cannot draw the result: %s.", missing.Error())
	case errors.Is(err, graphs.ErrTooManyRows):
		return "The query returned too many rows."
	case errors.Is(err, render.ErrArgument):
		return "That renderer argument is not allowed: " + rejectedArgument(err) + "."
	case errors.Is(err, render.ErrTimeout):
		return "Rendering took too long and was stopped."
	case errors.Is(err, render.ErrSpawn):
		return "The renderer is not available."
	case errors.Is(err, render.ErrExit) && errors.As(err, &renderErr):
		return "The renderer failed: " + firstLine(renderErr.Stderr)
	case errors.Is(err, context.DeadlineExceeded):
		return "The query took too long and was stopped."
	case errors.Is(err, graphs.ErrQueryFailed):
		return "Query failed: " + firstLine(strings.TrimPrefix(err.Error(), graphs.ErrQueryFailed.Error()+": "))
	default:
		return "Something went wrong while handling the command."
	}
}

func rejectedArgument(err error) string {
	var renderErr *render.Error
	if errors.As(err, &renderErr) {
		return strings.TrimPrefix(renderErr.Err.Error(), render.ErrArgument.Error()+": ")
	}
	return err.Error()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "no details"
	}
	return s
}
