package lspserver

import (
	"encoding/json"

	"github.com/cwbudde/go-cms2ls/internal/query"
	"github.com/cwbudde/go-cms2ls/internal/transport"
)

func (s *Server) handleInitialize(id json.RawMessage) *transport.Response {
	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    1, // full document sync
				Save:      saveOptions{IncludeText: true},
			},
			CompletionProvider: completionOptions{
				TriggerCharacters: []string{".", "(", " "},
				ResolveProvider:   false,
			},
			HoverProvider:      true,
			DefinitionProvider: true,
			ReferencesProvider: true,
			DocumentSymbol:     true,
		},
		ServerInfo: serverInfo{Name: serverName, Version: Version},
	}

	resp, err := transport.NewResult(id, result)
	if err != nil {
		return transport.NewError(id, -32603, "internal error building initialize result")
	}
	return resp
}

func (s *Server) handleDidOpen(env *transport.Envelope) {
	var params didOpenParams
	if !s.parseParams(env, &params) {
		return
	}
	s.parseAndStore(params.TextDocument.URI, params.TextDocument.Text)
}

func (s *Server) handleDidChange(env *transport.Envelope) {
	var params didChangeParams
	if !s.parseParams(env, &params) {
		return
	}
	if len(params.ContentChanges) == 0 {
		return
	}
	// Full sync: the last reported change carries the whole new text.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.parseAndStore(params.TextDocument.URI, text)
}

func (s *Server) handleDidClose(env *transport.Envelope) {
	var params didCloseParams
	if !s.parseParams(env, &params) {
		return
	}
	delete(s.documents, params.TextDocument.URI)
}

func (s *Server) handleCompletion(env *transport.Envelope) *transport.Response {
	var params textDocumentPositionParams
	if !s.parseParams(env, &params) {
		return transport.NewNullResult(env.ID)
	}

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		result, _ := transport.NewResult(env.ID, completionList{Items: []completionItem{}})
		return result
	}

	lines := s.documentLines(params.TextDocument.URI)
	var prefix string
	if params.Position.Line >= 0 && params.Position.Line < len(lines) {
		prefix = query.CompletionPrefix(lines[params.Position.Line], params.Position.Character)
	}

	matches := query.Completions(doc.model, prefix)
	items := make([]completionItem, 0, len(matches))
	for _, m := range matches {
		items = append(items, completionItem{
			Label:         m.Label,
			Kind:          m.Kind,
			Detail:        m.Detail,
			Documentation: m.Documentation,
		})
	}

	resp, err := transport.NewResult(env.ID, completionList{IsIncomplete: false, Items: items})
	if err != nil {
		return transport.NewError(env.ID, -32603, "internal error building completion result")
	}
	return resp
}

func (s *Server) handleHover(env *transport.Envelope) *transport.Response {
	var params textDocumentPositionParams
	if !s.parseParams(env, &params) {
		return transport.NewNullResult(env.ID)
	}

	lines := s.documentLines(params.TextDocument.URI)
	if params.Position.Line < 0 || params.Position.Line >= len(lines) {
		return transport.NewNullResult(env.ID)
	}

	word, ok := query.WordAtPosition(lines[params.Position.Line], params.Position.Character)
	if !ok {
		return transport.NewNullResult(env.ID)
	}

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		return transport.NewNullResult(env.ID)
	}

	info := query.HoverInfo(doc.model, word)
	if !info.Found {
		return transport.NewNullResult(env.ID)
	}

	resp, err := transport.NewResult(env.ID, hoverResult{
		Contents: markupContent{Kind: "markdown", Value: info.Markdown},
	})
	if err != nil {
		return transport.NewError(env.ID, -32603, "internal error building hover result")
	}
	return resp
}

func (s *Server) handleDefinition(env *transport.Envelope) *transport.Response {
	var params textDocumentPositionParams
	if !s.parseParams(env, &params) {
		return transport.NewNullResult(env.ID)
	}

	lines := s.documentLines(params.TextDocument.URI)
	if params.Position.Line < 0 || params.Position.Line >= len(lines) {
		return transport.NewNullResult(env.ID)
	}

	word, ok := query.WordAtPosition(lines[params.Position.Line], params.Position.Character)
	if !ok {
		return transport.NewNullResult(env.ID)
	}

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		return transport.NewNullResult(env.ID)
	}

	line, ok := query.FindDefinitionLine(doc.model, word)
	if !ok {
		return transport.NewNullResult(env.ID)
	}

	resp, err := transport.NewResult(env.ID, Location{
		URI: params.TextDocument.URI,
		Range: Range{
			Start: Position{Line: line, Character: 0},
			End:   Position{Line: line, Character: 0},
		},
	})
	if err != nil {
		return transport.NewError(env.ID, -32603, "internal error building definition result")
	}
	return resp
}

func (s *Server) handleReferences(env *transport.Envelope) *transport.Response {
	var params referencesParams
	if !s.parseParams(env, &params) {
		return transport.NewNullResult(env.ID)
	}

	lines := s.documentLines(params.TextDocument.URI)
	if params.Position.Line < 0 || params.Position.Line >= len(lines) {
		empty, _ := transport.NewResult(env.ID, []Location{})
		return empty
	}

	word, ok := query.WordAtPosition(lines[params.Position.Line], params.Position.Character)
	if !ok {
		empty, _ := transport.NewResult(env.ID, []Location{})
		return empty
	}

	refs := query.FindReferences(lines, word)
	locations := make([]Location, 0, len(refs))
	for _, r := range refs {
		locations = append(locations, Location{
			URI: params.TextDocument.URI,
			Range: Range{
				Start: Position{Line: r.Line, Character: r.StartChar},
				End:   Position{Line: r.Line, Character: r.EndChar},
			},
		})
	}

	resp, err := transport.NewResult(env.ID, locations)
	if err != nil {
		return transport.NewError(env.ID, -32603, "internal error building references result")
	}
	return resp
}

func (s *Server) handleDocumentSymbol(env *transport.Envelope) *transport.Response {
	var params struct {
		TextDocument textDocumentIdentifier `json:"textDocument"`
	}
	if !s.parseParams(env, &params) {
		return transport.NewNullResult(env.ID)
	}

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		empty, _ := transport.NewResult(env.ID, []documentSymbol{})
		return empty
	}

	symbols := query.DocumentSymbols(doc.model)
	out := make([]documentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		selectionEnd := Position{Line: sym.LineStart, Character: len(sym.Name)}
		out = append(out, documentSymbol{
			Name: sym.Name,
			Kind: sym.Kind,
			Range: Range{
				Start: Position{Line: sym.LineStart, Character: 0},
				End:   Position{Line: sym.LineEnd, Character: 0},
			},
			SelectionRange: Range{
				Start: Position{Line: sym.LineStart, Character: 0},
				End:   selectionEnd,
			},
			Detail: sym.Detail,
		})
	}

	resp, err := transport.NewResult(env.ID, out)
	if err != nil {
		return transport.NewError(env.ID, -32603, "internal error building documentSymbol result")
	}
	return resp
}
