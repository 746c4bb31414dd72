// Package websocket serves conversion jobs over a WebSocket connection with
// gorilla/websocket.
package websocket

import (
	"encoding/base64"
	"sync"
	"time"

	"github.com/fwojciec/ebook2pdf"
	"github.com/gorilla/websocket"
)

// Message types sent to the client.
const (
	TypeLog   = "log"
	TypeFile  = "file"
	TypeError = "error"
)

// DefaultWriteTimeout bounds a single write to the client.
const DefaultWriteTimeout = 30 * time.Second

// Message is the union of every server-to-client message. Clients decode
// into it; the server writes the narrower shapes below.
type Message struct {
	Type     string `json:"type"`
	Value    string `json:"value,omitempty"`
	Filename string `json:"filename,omitempty"`
	Base64   string `json:"base64,omitempty"`
}

type valueMessage struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type fileMessage struct {
	Type     string `json:"type"`
	Filename string `json:"filename"`
	Base64   string `json:"base64"`
}

// Ensure Conn implements ebook2pdf.LiveChannel at compile time.
var _ ebook2pdf.LiveChannel = (*Conn)(nil)

// Conn is the live channel of a job over one WebSocket connection. Writes
// are serialized.
type Conn struct {
	mu           sync.Mutex
	ws           *websocket.Conn
	writeTimeout time.Duration
}

// NewConn wraps ws. A zero writeTimeout means DefaultWriteTimeout.
func NewConn(ws *websocket.Conn, writeTimeout time.Duration) *Conn {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Conn{ws: ws, writeTimeout: writeTimeout}
}

func (c *Conn) SendLog(line string) error {
	return c.write(valueMessage{Type: TypeLog, Value: line})
}

func (c *Conn) SendFile(filename string, data []byte) error {
	return c.write(fileMessage{
		Type:     TypeFile,
		Filename: filename,
		Base64:   base64.StdEncoding.EncodeToString(data),
	})
}

func (c *Conn) SendError(message string) error {
	return c.write(valueMessage{Type: TypeError, Value: message})
}

func (c *Conn) write(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.ws.WriteJSON(v)
}
