package lspserver

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cwbudde/go-cms2ls/internal/transport"
)

func newTestServer() *Server {
	return New(strings.NewReader(""), &bytes.Buffer{}, nil)
}

func request(t *testing.T, id int, method string, params any) *transport.Envelope {
	t.Helper()
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	raw, err := json.Marshal(map[string]json.RawMessage{
		"jsonrpc": json.RawMessage(`"2.0"`),
		"id":      json.RawMessage(mustJSON(t, id)),
		"method":  json.RawMessage(mustJSON(t, method)),
		"params":  paramsJSON,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return &transport.Envelope{Method: method, HasID: true, ID: json.RawMessage(mustJSON(t, id)), Raw: raw}
}

func notification(t *testing.T, method string, params any) *transport.Envelope {
	t.Helper()
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	raw, err := json.Marshal(map[string]json.RawMessage{
		"jsonrpc": json.RawMessage(`"2.0"`),
		"method":  json.RawMessage(mustJSON(t, method)),
		"params":  paramsJSON,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return &transport.Envelope{Method: method, HasID: false, Raw: raw}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

const uri = "file:///test.cms2"

func TestInitializeAdvertisesCapabilities(t *testing.T) {
	s := newTestServer()
	out := s.dispatchRequest(request(t, 1, "initialize", map[string]any{}))

	var resp struct {
		Result struct {
			Capabilities struct {
				HoverProvider      bool `json:"hoverProvider"`
				DefinitionProvider bool `json:"definitionProvider"`
				ReferencesProvider bool `json:"referencesProvider"`
				DocumentSymbol     bool `json:"documentSymbolProvider"`
				CompletionProvider struct {
					TriggerCharacters []string `json:"triggerCharacters"`
				} `json:"completionProvider"`
			} `json:"capabilities"`
		} `json:"result"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Result.Capabilities.HoverProvider || !resp.Result.Capabilities.DefinitionProvider ||
		!resp.Result.Capabilities.ReferencesProvider || !resp.Result.Capabilities.DocumentSymbol {
		t.Errorf("expected all boolean capabilities true: %+v", resp.Result.Capabilities)
	}
	if len(resp.Result.Capabilities.CompletionProvider.TriggerCharacters) != 3 {
		t.Errorf("expected 3 trigger characters, got %v",
			resp.Result.Capabilities.CompletionProvider.TriggerCharacters)
	}
}

func TestIntegerVariableScenario(t *testing.T) {
	s := newTestServer()
	text := "DDX SYS-DD $\nVRBL ALT I 16 S $\nEND-SYS-DD DDX $\n"

	s.dispatchNotification(notification(t, "textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": uri, "text": text},
	}))

	doc, ok := s.documents[uri]
	if !ok {
		t.Fatalf("expected document to be stored after didOpen")
	}
	alt := doc.model.GetVariable("ALT")
	if alt == nil || alt.Bits != 16 || !alt.Signed || alt.LineNumber != 1 {
		t.Fatalf("ALT = %+v", alt)
	}

	// Cursor just after the "A" of ALT, so the completion prefix is "A".
	completionOut := s.dispatchRequest(request(t, 2, "textDocument/completion", map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": 1, "character": 6},
	}))
	var completionResp struct {
		Result completionList `json:"result"`
	}
	if err := json.Unmarshal(completionOut, &completionResp); err != nil {
		t.Fatalf("unmarshal completion: %v", err)
	}
	var sawALT bool
	for _, item := range completionResp.Result.Items {
		if item.Label == "ALT" && item.Kind == 6 {
			sawALT = true
		}
	}
	if !sawALT {
		t.Errorf("expected ALT (kind 6) in completion items: %+v", completionResp.Result.Items)
	}

	hoverOut := s.dispatchRequest(request(t, 3, "textDocument/hover", map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": 1, "character": 6},
	}))
	var hoverResp struct {
		Result hoverResult `json:"result"`
	}
	if err := json.Unmarshal(hoverOut, &hoverResp); err != nil {
		t.Fatalf("unmarshal hover: %v", err)
	}
	if !strings.Contains(hoverResp.Result.Contents.Value, "VRBL ALT") {
		t.Errorf("hover value = %q", hoverResp.Result.Contents.Value)
	}

	defOut := s.dispatchRequest(request(t, 4, "textDocument/definition", map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": 1, "character": 6},
	}))
	var defResp struct {
		Result Location `json:"result"`
	}
	if err := json.Unmarshal(defOut, &defResp); err != nil {
		t.Fatalf("unmarshal definition: %v", err)
	}
	if defResp.Result.Range.Start.Line != 1 {
		t.Errorf("definition line = %d, want 1", defResp.Result.Range.Start.Line)
	}
}

func TestTableWithFieldsDocumentSymbols(t *testing.T) {
	s := newTestServer()
	text := "TABLE WP V MEDIUM 100 $\nFIELD X I 16 S $\nFIELD Y H 8 $\nEND-TABLE WP $"
	s.dispatchNotification(notification(t, "textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": uri, "text": text},
	}))

	out := s.dispatchRequest(request(t, 5, "textDocument/documentSymbol", map[string]any{
		"textDocument": map[string]any{"uri": uri},
	}))
	var resp struct {
		Result []documentSymbol `json:"result"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	var found bool
	for _, sym := range resp.Result {
		if sym.Name == "WP" && sym.Kind == 23 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected WP kind 23 in document symbols: %+v", resp.Result)
	}
}

func TestDidCloseRemovesDocument(t *testing.T) {
	s := newTestServer()
	s.dispatchNotification(notification(t, "textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": uri, "text": "VRBL X I 16 S $"},
	}))
	if _, ok := s.documents[uri]; !ok {
		t.Fatalf("expected document present after open")
	}

	s.dispatchNotification(notification(t, "textDocument/didClose", map[string]any{
		"textDocument": map[string]any{"uri": uri},
	}))
	if _, ok := s.documents[uri]; ok {
		t.Errorf("expected document removed after close")
	}
}

func TestUnknownMethodReturnsNullResult(t *testing.T) {
	s := newTestServer()
	out := s.dispatchRequest(request(t, 9, "textDocument/somethingUnsupported", map[string]any{}))

	var resp struct {
		Result any `json:"result"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Result != nil {
		t.Errorf("expected null result for unknown method, got %v", resp.Result)
	}
}
