// Package lsp implements a language server for flowchart and pie diagrams. It publishes parse
// errors as diagnostics and shows hover information for nodes and pie slices.
//
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/
package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/teleivo/merm/internal/document"
	"github.com/teleivo/merm/internal/lexer"
	"github.com/teleivo/merm/internal/version"
	"github.com/teleivo/merm/lsp/internal/diagnostic"
	"github.com/teleivo/merm/lsp/internal/hover"
	"github.com/teleivo/merm/lsp/internal/rpc"
)

// Config configures a [Server].
type Config struct {
	Debug bool      // enable debug logging
	In    io.Reader // input for client messages
	Out   io.Writer // output for server messages
	Log   io.Writer // output for logs, discarded if nil
}

// Server is a language server talking to a single client.
type Server struct {
	in     io.Reader
	out    *rpc.Writer
	logger *slog.Logger
	lexer  *lexer.Lexer
	state  state
	docs   map[rpc.DocumentURI]*textDocument
}

// New creates a server.
func New(cfg Config) (*Server, error) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := cfg.Log
	if log == nil {
		log = io.Discard
	}
	l, err := lexer.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create lexer: %v", err)
	}

	return &Server{
		in:     cfg.In,
		out:    rpc.NewWriter(cfg.Out),
		logger: slog.New(slog.NewTextHandler(log, &slog.HandlerOptions{Level: level})),
		lexer:  l,
		docs:   make(map[rpc.DocumentURI]*textDocument),
	}, nil
}

type state int

const (
	uninitialized state = iota
	initialized
	shuttingDown
)

// errExit is returned by handlers on the exit notification.
var errExit = errors.New("exit")

// Start serves client messages until the client sends the exit notification, the input ends or
// ctx is done. It returns an error if reading or writing messages fails or if the client exits
// without asking the server to shut down first.
func (srv *Server) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.serve()
	}()

	select {
	case <-ctx.Done():
		srv.logger.Debug("shutting down", "cause", context.Cause(ctx))
		return nil
	case err := <-errc:
		return err
	}
}

func (srv *Server) serve() error {
	s := rpc.NewScanner(srv.in)
	for s.Scan() {
		var msg rpc.Message
		if err := json.Unmarshal(s.Bytes(), &msg); err != nil {
			srv.logger.Error("failed to decode message", "err", err)
			if err := srv.out.RespondError(nil, rpc.ParseError, "invalid JSON"); err != nil {
				return err
			}
			continue
		}
		srv.logger.Debug("received", "method", msg.Method, "request", msg.IsRequest())

		err := srv.handle(msg)
		if errors.Is(err, errExit) {
			if srv.state != shuttingDown {
				return errors.New("received exit notification before shutdown request")
			}
			return nil
		}
		if err != nil && !errors.Is(err, errInvalidParams) {
			return err
		}
	}
	return s.Err()
}

func (srv *Server) handle(msg rpc.Message) error {
	if msg.Method == "exit" {
		return errExit
	}

	switch srv.state {
	case uninitialized:
		if msg.Method == "initialize" {
			return srv.initialize(msg)
		}
		return srv.reject(msg, rpc.ServerNotInitialized, "server not initialized")
	case shuttingDown:
		return srv.reject(msg, rpc.InvalidRequest, "server is shutting down")
	}

	switch msg.Method {
	case "initialize":
		return srv.reject(msg, rpc.InvalidRequest, "server already initialized")
	case "initialized", "textDocument/didSave":
		return nil
	case "shutdown":
		srv.state = shuttingDown
		return srv.out.Respond(msg.ID, nil)
	case "textDocument/didOpen":
		var params rpc.DidOpenTextDocumentParams
		if err := srv.decode(msg, &params); err != nil {
			return err
		}
		doc := newDocument(params.TextDocument)
		srv.docs[params.TextDocument.URI] = doc
		return srv.publish(params.TextDocument.URI, doc)
	case "textDocument/didChange":
		var params rpc.DidChangeTextDocumentParams
		if err := srv.decode(msg, &params); err != nil {
			return err
		}
		doc, ok := srv.docs[params.TextDocument.URI]
		if !ok {
			srv.logger.Error("change of unknown document", "uri", params.TextDocument.URI)
			return nil
		}
		if err := doc.apply(params.ContentChanges); err != nil {
			srv.logger.Error("failed to apply changes", "uri", params.TextDocument.URI, "version", params.TextDocument.Version, "err", err)
			return nil
		}
		doc.version = params.TextDocument.Version
		return srv.publish(params.TextDocument.URI, doc)
	case "textDocument/didClose":
		var params rpc.DidCloseTextDocumentParams
		if err := srv.decode(msg, &params); err != nil {
			return err
		}
		delete(srv.docs, params.TextDocument.URI)
		return nil
	case "textDocument/hover":
		var params rpc.TextDocumentPositionParams
		if err := srv.decode(msg, &params); err != nil {
			return err
		}
		return srv.hover(msg.ID, params)
	}

	if msg.IsRequest() {
		return srv.out.RespondError(msg.ID, rpc.MethodNotFound, "method not found")
	}
	srv.logger.Debug("dropping notification", "method", msg.Method)
	return nil
}

// reject answers requests with an error. Notifications are dropped.
func (srv *Server) reject(msg rpc.Message, code int64, message string) error {
	if !msg.IsRequest() {
		srv.logger.Debug("dropping notification", "method", msg.Method, "reason", message)
		return nil
	}
	return srv.out.RespondError(msg.ID, code, message)
}

// decode decodes the params of msg into v. Requests with invalid params are answered with an
// error. The message is then skipped.
func (srv *Server) decode(msg rpc.Message, v any) error {
	err := json.Unmarshal(msg.Params, v)
	if err == nil {
		return nil
	}
	srv.logger.Error("failed to decode params", "method", msg.Method, "err", err)
	if msg.IsRequest() {
		if err := srv.out.RespondError(msg.ID, rpc.InvalidParams, fmt.Sprintf("invalid params: %v", err)); err != nil {
			return err
		}
	}
	return errInvalidParams
}

var errInvalidParams = errors.New("invalid params")

func (srv *Server) initialize(msg rpc.Message) error {
	if !msg.IsRequest() {
		return nil
	}
	srv.state = initialized
	return srv.out.Respond(msg.ID, rpc.InitializeResult{
		Capabilities: rpc.ServerCapabilities{
			HoverProvider:    true,
			PositionEncoding: "utf-8",
			TextDocumentSync: 2,
		},
		ServerInfo: rpc.ServerInfo{
			Name:    "mermls",
			Version: version.Version(),
		},
	})
}

func (srv *Server) publish(uri rpc.DocumentURI, doc *textDocument) error {
	params, parsed := diagnostic.Compute(doc.src, uri, doc.version)
	doc.parsed = parsed
	return srv.out.Notify("textDocument/publishDiagnostics", params)
}

func (srv *Server) hover(id *rpc.ID, params rpc.TextDocumentPositionParams) error {
	doc, ok := srv.docs[params.TextDocument.URI]
	if !ok {
		return srv.out.Respond(id, nil)
	}
	offset, err := params.Position.Offset(doc.src)
	if err != nil {
		return srv.out.RespondError(id, rpc.InvalidParams, err.Error())
	}
	return srv.out.Respond(id, hover.Info(srv.lexer, doc.src, doc.parsed, offset))
}

// textDocument is a document opened by the client.
type textDocument struct {
	version int32
	src     string
	// parsed is the model of src or nil if src has errors.
	parsed *document.Document
}

func newDocument(item rpc.TextDocumentItem) *textDocument {
	return &textDocument{version: item.Version, src: item.Text}
}

// apply applies the changes to the document in order. The document is only modified if all
// changes apply.
func (d *textDocument) apply(changes []rpc.TextDocumentContentChangeEvent) error {
	src := d.src
	for i, change := range changes {
		var err error
		src, err = applyChange(src, change)
		if err != nil {
			return fmt.Errorf("change %d: %w", i, err)
		}
	}
	d.src = src
	return nil
}

// applyChange applies an incremental or a full change to src.
func applyChange(src string, change rpc.TextDocumentContentChangeEvent) (string, error) {
	if change.Range == nil {
		return change.Text, nil
	}

	start, err := change.Range.Start.Offset(src)
	if err != nil {
		return src, err
	}
	end, err := change.Range.End.Offset(src)
	if err != nil {
		return src, err
	}
	if end < start {
		return src, fmt.Errorf("invalid range: end %d:%d is before start %d:%d",
			change.Range.End.Line, change.Range.End.Character, change.Range.Start.Line, change.Range.Start.Character)
	}
	return src[:start] + change.Text + src[end:], nil
}
