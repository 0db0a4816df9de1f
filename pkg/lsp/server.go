package lsp

import (
	"context"
	"encoding/json"
	"fmt"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/logutil"
	"src.rho.sh/pkg/parse"
	"src.rho.sh/pkg/resolve"
)

var logger = logutil.GetLogger("[lsp] ")

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	content map[lsp.DocumentURI]string
}

func newServer() *server {
	return &server{make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":             s.initialize,
		"textDocument/didOpen":   s.didOpen,
		"textDocument/didChange": s.didChange,
		"textDocument/didClose":  s.didClose,
		"textDocument/hover":     s.hover,

		// Required by the protocol.
		"initialized": noop,
		"shutdown":    noop,
		// Sent by some clients even without advertised support.
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			logger.Println("unsupported method", req.Method)
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider: true,
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// Only full-text changes are advertised in initialize, so the last
	// change holds the whole document.
	uri := params.TextDocument.URI
	content := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content, ok := s.content[params.TextDocument.URI]
	if !ok {
		return lsp.Hover{}, nil
	}
	tree, err := parse.Parse(parse.Source{Name: string(params.TextDocument.URI), Code: content}, parse.Config{})
	if err != nil {
		return lsp.Hover{}, nil
	}
	// Bindings before a resolution error are still useful.
	_, bindings, _ := resolve.ResolveWithBindings(tree)
	idx := lspPositionToIdx(content, params.Position)
	for _, b := range bindings {
		if b.Contains(idx) {
			rg := lspRangeFromRange(content, b)
			return lsp.Hover{
				Contents: []lsp.MarkedString{lsp.RawMarkedString(describe(b))},
				Range:    &rg,
			}, nil
		}
	}
	return lsp.Hover{}, nil
}

func describe(b resolve.Binding) string {
	return fmt.Sprintf("%s %s (index %d)", b.Kind, b.Name, b.Index)
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(uri, content)})
}

func diagnostics(uri lsp.DocumentURI, content string) []lsp.Diagnostic {
	tree, err := parse.Parse(parse.Source{Name: string(uri), Code: content}, parse.Config{})
	if err != nil {
		return diagnosticsFromErrors(content, "parse", parse.UnpackErrors(err))
	}
	_, err = resolve.Resolve(tree)
	if err != nil {
		return diagnosticsFromErrors(content, "resolve", diag.UnpackErrors(err, resolve.ErrorType))
	}
	return []lsp.Diagnostic{}
}

func diagnosticsFromErrors(content, source string, entries []*diag.Error) []lsp.Diagnostic {
	diags := make([]lsp.Diagnostic, len(entries))
	for i, err := range entries {
		diags[i] = lsp.Diagnostic{
			Range:    lspRangeFromRange(content, err),
			Severity: lsp.Error,
			Source:   source,
			Message:  err.Message,
		}
	}
	return diags
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
// Only \n ends a line; the reader treats \r like any other skipped byte.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\n':
			p.Line++
			p.Character = 0
		case r <= 0xFFFF:
			// One UTF-16 unit
			p.Character++
		default:
			// Two UTF-16 units
			p.Character += 2
		}
	}
	f(len(s), p)
}
