package mock

import (
	"sync"

	"github.com/fwojciec/ebook2pdf"
)

var _ ebook2pdf.LiveChannel = (*LiveChannel)(nil)

// LiveChannel is a mock implementation of ebook2pdf.LiveChannel.
type LiveChannel struct {
	SendLogFn   func(line string) error
	SendFileFn  func(filename string, data []byte) error
	SendErrorFn func(message string) error
}

func (c *LiveChannel) SendLog(line string) error {
	return c.SendLogFn(line)
}

func (c *LiveChannel) SendFile(filename string, data []byte) error {
	return c.SendFileFn(filename, data)
}

func (c *LiveChannel) SendError(message string) error {
	return c.SendErrorFn(message)
}

var _ ebook2pdf.LiveChannel = (*LiveRecorder)(nil)

// LiveMessage is one message captured by LiveRecorder.
type LiveMessage struct {
	Type     string // "log", "file" or "error"
	Value    string
	Filename string
	Data     []byte
}

// LiveRecorder is an ebook2pdf.LiveChannel that keeps every message sent.
type LiveRecorder struct {
	mu       sync.Mutex
	messages []LiveMessage
}

func (r *LiveRecorder) SendLog(line string) error {
	return r.add(LiveMessage{Type: "log", Value: line})
}

func (r *LiveRecorder) SendFile(filename string, data []byte) error {
	return r.add(LiveMessage{Type: "file", Filename: filename, Data: data})
}

func (r *LiveRecorder) SendError(message string) error {
	return r.add(LiveMessage{Type: "error", Value: message})
}

func (r *LiveRecorder) add(m LiveMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
	return nil
}

// Messages returns a copy of the recorded messages.
func (r *LiveRecorder) Messages() []LiveMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LiveMessage(nil), r.messages...)
}

// OfType returns the recorded messages of the given type.
func (r *LiveRecorder) OfType(typ string) []LiveMessage {
	var out []LiveMessage
	for _, m := range r.Messages() {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}
