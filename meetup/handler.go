package meetup

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Command names understood by Handle.
const (
	CommandGraph      = "graph"
	CommandGraphQuery = "graphquery"
	CommandQuery      = "query"
)

// MaxMessageLength is the longest text sent inline. Longer text is attached
// as a file.
const MaxMessageLength = 1990

const (
	imageFileName = "graph.png"
	textFileName  = "result.txt"
	emptyResult   = "The query returned no rows."
)

// Command is a chat command with its resolved string options.
type Command struct {
	Name    string
	Options map[string]string
}

// Attachment is a file sent with a reply.
type Attachment struct {
	Name string
	Data []byte
}

// Reply is the response to a Command: text, files or both.
type Reply struct {
	Content string
	Files   []Attachment
}

// Handle runs a command and builds the reply. Failures, including panics,
// become a reply describing the problem.
func (s *Service) Handle(ctx context.Context, cmd Command) (reply Reply) {
	requestID := uuid.NewString()
	logger := s.opts.logger.With(
		zap.String("request_id", requestID),
		zap.String("command", cmd.Name))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("command panicked", zap.Any("panic", r), zap.Stack("stack"))
			reply = Reply{Content: UserMessage(fmt.Errorf("panic: %v", r))}
		}
	}()

	var err error
	switch cmd.Name {
	case CommandGraph:
		var image []byte
		image, err = s.Graph(ctx, cmd.Options["who"], cmd.Options["extra_args"])
		reply = imageReply(image)
	case CommandGraphQuery:
		var image []byte
		image, err = s.GraphQuery(ctx, cmd.Options["query"], cmd.Options["extra_args"])
		reply = imageReply(image)
	case CommandQuery:
		var text string
		text, err = s.Query(ctx, cmd.Options["query"])
		reply = TextReply(text)
	default:
		logger.Warn("unknown command")
		return Reply{Content: "Command doesn't exist"}
	}

	if err != nil {
		logger.Warn("command failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return Reply{Content: UserMessage(err)}
	}

	logger.Info("command handled", zap.Duration("duration", time.Since(start)))
	return reply
}

func imageReply(image []byte) Reply {
	return Reply{Files: []Attachment{{Name: imageFileName, Data: image}}}
}

// TextReply sends short text inline and attaches longer text as a file.
func TextReply(text string) Reply {
	if text == "" {
		return Reply{Content: emptyResult}
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return Reply{Files: []Attachment{{Name: textFileName, Data: []byte(text)}}}
	}
	return Reply{Content: text}
}
