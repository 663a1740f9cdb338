// Package transport implements the wire format the Language Server
// Protocol runs over stdio: messages framed by a "Content-Length" header
// (RFC 822 style, blank line, then a UTF-8 JSON-RPC 2.0 body). Routing
// reads just enough of each message (its "method" and "id" fields) via
// gjson before any typed decoding happens, the same shallow-peek-then-
// decode shape the teacher's lexer uses when it peeks a rune before
// deciding how to tokenize it.
package transport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const contentLengthHeader = "Content-Length"

// Envelope is a routed, not-yet-fully-decoded JSON-RPC message: enough of
// it has been read to know whether it's a request or a notification and
// which method to dispatch to, while Raw still holds the full body for a
// handler to json.Unmarshal into a typed params struct.
type Envelope struct {
	Method string
	ID     json.RawMessage // nil for notifications
	HasID  bool
	Raw    []byte
}

// Reader reads framed JSON-RPC messages from an underlying stream.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r for frame-at-a-time reading.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadMessage reads one Content-Length-framed message and routes it via
// gjson. io.EOF is returned once the stream is exhausted with no partial
// frame in flight.
func (r *Reader) ReadMessage() (*Envelope, error) {
	contentLength := -1

	for {
		line, err := r.br.ReadString('\n')
		if err != nil {
			if err == io.EOF && line == "" {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("transport: reading header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), contentLengthHeader) {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("transport: invalid Content-Length %q: %w", value, err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("transport: message missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r.br, body); err != nil {
		return nil, fmt.Errorf("transport: reading body: %w", err)
	}

	return routeMessage(body), nil
}

func routeMessage(body []byte) *Envelope {
	result := gjson.ParseBytes(body)

	env := &Envelope{
		Method: result.Get("method").String(),
		Raw:    body,
	}

	if idResult := result.Get("id"); idResult.Exists() {
		env.HasID = true
		env.ID = json.RawMessage(idResult.Raw)
	}

	return env
}

// Writer writes Content-Length-framed messages to an underlying stream.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w for frame-at-a-time writing.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteMessage frames body with a Content-Length header and writes it.
func (w *Writer) WriteMessage(body []byte) error {
	header := fmt.Sprintf("%s: %d\r\n\r\n", contentLengthHeader, len(body))
	if _, err := io.WriteString(w.w, header); err != nil {
		return fmt.Errorf("transport: writing header: %w", err)
	}
	if _, err := w.w.Write(body); err != nil {
		return fmt.Errorf("transport: writing body: %w", err)
	}
	return nil
}
