package bridge

import (
	"github.com/enrollmate/enrollmate/internal/course"
	"github.com/enrollmate/enrollmate/internal/extractor"
)

// MessageType names a message exchanged between the two handlers.
type MessageType string

const (
	StartExtraction MessageType = "START_EXTRACTION"
	ExtractCourses  MessageType = "EXTRACT_COURSES"
	OpenConsumer    MessageType = "OPEN_REACT_APP"
)

// Message is a request to a Handler.
type Message struct {
	Type MessageType     `json:"type"`
	Data []course.Record `json:"data,omitempty"`
}

// Response is the reply to a Message.
type Response struct {
	Success bool   `json:"success"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handler answers messages.
type Handler interface {
	Handle(msg Message) Response
}

// fromResult converts an extraction result to a response.
func fromResult(r extractor.Result) Response {
	return Response{
		Success: r.Success,
		Count:   r.Count,
		Message: r.Message,
		Error:   r.Error,
	}
}

func failed(msg string) Response {
	return Response{Success: false, Error: msg}
}
