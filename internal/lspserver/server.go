// Package lspserver wires the transport, parser, semantic model, and
// query layers into a running Language Server: one dispatch loop reading
// framed JSON-RPC messages from stdin and writing responses to stdout,
// exactly as a single-threaded editor-facing server for a language this
// small needs to be. There is no concurrency and no request
// cancellation: CMS-2 documents are small and parsing is cheap enough
// that a blocking, one-request-at-a-time loop never becomes a bottleneck.
package lspserver

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/cwbudde/go-cms2ls/internal/diag"
	"github.com/cwbudde/go-cms2ls/internal/logx"
	"github.com/cwbudde/go-cms2ls/internal/parser"
	"github.com/cwbudde/go-cms2ls/internal/semantic"
	"github.com/cwbudde/go-cms2ls/internal/transport"
)

const serverName = "CMS-2 Language Server"

// Version is the protocol-facing server version string; the serve command
// overwrites it with the CLI's build version before the server starts.
var Version = "1.0.0"

type document struct {
	text  string
	model *semantic.Model
}

// Server is a running LSP session bound to one stdio transport pair.
type Server struct {
	reader *transport.Reader
	writer *transport.Writer
	log    *logx.Logger

	documents map[string]*document
	running   bool
}

// New builds a Server reading framed messages from r and writing
// responses to w.
func New(r io.Reader, w io.Writer, log *logx.Logger) *Server {
	if log == nil {
		log = logx.Default()
	}
	return &Server{
		reader:    transport.NewReader(r),
		writer:    transport.NewWriter(w),
		log:       log,
		documents: make(map[string]*document),
		running:   true,
	}
}

// Run blocks, dispatching messages until the client sends `exit` or the
// transport reaches EOF.
func (s *Server) Run() error {
	for s.running {
		env, err := s.reader.ReadMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Printf("error reading message: %v", err)
			continue
		}

		resp := s.dispatch(env)
		if resp == nil {
			continue
		}
		if err := s.writer.WriteMessage(resp); err != nil {
			s.log.Printf("error writing response: %v", err)
		}
	}
	return nil
}

func (s *Server) dispatch(env *transport.Envelope) []byte {
	if env.HasID {
		return s.dispatchRequest(env)
	}
	s.dispatchNotification(env)
	return nil
}

func (s *Server) dispatchRequest(env *transport.Envelope) []byte {
	var resp *transport.Response

	switch env.Method {
	case "initialize":
		resp = s.handleInitialize(env.ID)
	case "shutdown":
		resp = &transport.Response{JSONRPC: "2.0", ID: env.ID, Result: json.RawMessage("null")}
	case "textDocument/completion":
		resp = s.handleCompletion(env)
	case "textDocument/hover":
		resp = s.handleHover(env)
	case "textDocument/definition":
		resp = s.handleDefinition(env)
	case "textDocument/references":
		resp = s.handleReferences(env)
	case "textDocument/documentSymbol":
		resp = s.handleDocumentSymbol(env)
	default:
		// No typed Response for a method this server doesn't recognize;
		// assemble the null-result passthrough directly.
		out, err := transport.PassthroughNullResult(env.ID)
		if err != nil {
			s.log.Printf("error building passthrough response for %s: %v", env.Method, err)
			return nil
		}
		return out
	}

	out, err := resp.Encode()
	if err != nil {
		s.log.Printf("error encoding response for %s: %v", env.Method, err)
		return nil
	}
	return out
}

func (s *Server) dispatchNotification(env *transport.Envelope) {
	switch env.Method {
	case "initialized":
		// client ready; nothing to do
	case "exit":
		s.running = false
	case "textDocument/didOpen":
		s.handleDidOpen(env)
	case "textDocument/didChange":
		s.handleDidChange(env)
	case "textDocument/didClose":
		s.handleDidClose(env)
	}
}

func (s *Server) parseParams(env *transport.Envelope, dest any) bool {
	var outer struct {
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(env.Raw, &outer); err != nil {
		s.log.Printf("malformed message for %s: %v", env.Method, err)
		return false
	}
	if len(outer.Params) == 0 {
		return true
	}
	if err := json.Unmarshal(outer.Params, dest); err != nil {
		s.log.Printf("malformed params for %s: %v", env.Method, err)
		return false
	}
	return true
}

func (s *Server) parseAndStore(uri, text string) {
	p := parser.New()
	m := p.Parse(text)
	if report := diag.FormatAll(p.Diagnostics()); report != "" {
		s.log.Printf("%s:\n%s", uri, report)
	}
	s.documents[uri] = &document{text: text, model: m}
}

func (s *Server) documentLines(uri string) []string {
	doc, ok := s.documents[uri]
	if !ok {
		return nil
	}
	return strings.Split(doc.text, "\n")
}
