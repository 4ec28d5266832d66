// Package watch provides a file watcher that serves the model of a diagram via HTTP.
package watch

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/teleivo/merm/internal/diagnostic"
	"github.com/teleivo/merm/internal/document"
)

// Config configures a Watcher.
type Config struct {
	File    string    // diagram file to serve
	Dialect string    // dialect of the file, "auto" detects it
	Port    string    // HTTP server port (use "0" for a random available port)
	Debug   bool      // enable debug logging
	Stdout  io.Writer // output for status messages
	Stderr  io.Writer // output for error logging
}

// Watcher watches a diagram file for changes and serves its parsed model via HTTP. It provides an
// SSE endpoint that notifies connected browsers when the model changes.
type Watcher struct {
	file     string
	dialect  string
	stdout   io.Writer
	logger   *slog.Logger
	diag     *diagnostic.Printer
	server   *http.Server
	shutdown chan struct{}
	clients  sync.WaitGroup
}

//go:embed index.html
var indexHTML []byte

// New creates a Watcher that serves the given diagram file on the specified port.
func New(cfg Config) (*Watcher, error) {
	_, err := os.Stat(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("file error: %v", err)
	}
	addr, err := netip.ParseAddrPort("127.0.0.1:" + cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q, must be in range 1-65535", cfg.Port)
	}
	dialect := cfg.Dialect
	if dialect == "" {
		dialect = "auto"
	}
	if !document.ValidDialect(dialect) {
		return nil, fmt.Errorf("invalid dialect %q: must be one of auto, flowchart or pie", dialect)
	}

	handler := http.NewServeMux()
	server := http.Server{
		Addr:        addr.String(),
		Handler:     handler,
		ReadTimeout: 3 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cfg.Stderr, &slog.HandlerOptions{Level: level}))
	wa := &Watcher{
		file:     cfg.File,
		dialect:  dialect,
		stdout:   cfg.Stdout,
		logger:   logger,
		diag:     diagnostic.NewPrinter(false),
		server:   &server,
		shutdown: make(chan struct{}),
	}
	handler.HandleFunc("GET /{$}", wa.handleIndex)
	handler.HandleFunc("GET /events", wa.handleEvents)
	handler.Handle("GET /model", http.TimeoutHandler(http.HandlerFunc(wa.handleModel), 5*time.Second, "failed to parse diagram in time"))
	return wa, nil
}

// Watch starts the HTTP server and blocks until the context is cancelled.
func (wa *Watcher) Watch(ctx context.Context) error {
	ln, err := net.Listen("tcp", wa.server.Addr)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(wa.stdout, "watching %s on http://%s\n", wa.file, ln.Addr())

	go func() {
		<-ctx.Done()
		close(wa.shutdown)
		wa.logger.Debug("shutting down, notifying clients")
		wa.clients.Wait()
		ctxTimeout, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		if err := wa.server.Shutdown(ctxTimeout); err != nil && !errors.Is(err, context.Canceled) {
			wa.logger.Error("failed to shutdown", "error", err)
		}
	}()

	if err := wa.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (wa *Watcher) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, err := w.Write(indexHTML)
	if err != nil {
		wa.logger.Error("failed to write index.html", "error", err)
	}
}

// handleEvents streams an event whenever the model of the file changes. The data of an event is
// the digest of the model. A failure event carrying the error message is sent instead if the file
// cannot be parsed.
func (wa *Watcher) handleEvents(w http.ResponseWriter, r *http.Request) {
	wa.clients.Add(1)
	defer wa.clients.Done()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	wa.logger.Debug("client connected")

	keepAliveTicker := time.NewTicker(15 * time.Second)
	defer keepAliveTicker.Stop()
	pollTicker := time.NewTicker(500 * time.Millisecond)
	defer pollTicker.Stop()

	var lastMod time.Time
	var lastSize int64
	var lastEvent string

	for {
		select {
		case <-r.Context().Done():
			wa.logger.Debug("client disconnected")
			return
		case <-wa.shutdown:
			_, _ = fmt.Fprint(w, "event: close\ndata: shutdown\n\n")
			flusher.Flush()
			wa.logger.Debug("closing connection to client")
			return
		case <-keepAliveTicker.C:
			_, _ = w.Write([]byte(": keep-alive\n"))
			wa.logger.Debug("sent keep-alive")
			flusher.Flush()
		case <-pollTicker.C:
			stat, err := os.Stat(wa.file)
			if err != nil {
				wa.logger.Error("stat failed", "error", err)
				return
			}
			if stat.ModTime().Equal(lastMod) && stat.Size() == lastSize {
				continue
			}
			lastMod = stat.ModTime()
			lastSize = stat.Size()
			wa.logger.Debug("change detected", "modtime", lastMod, "size", lastSize)

			event := wa.event()
			// edits that do not change the model are not sent
			if event == lastEvent {
				continue
			}
			lastEvent = event
			_, _ = fmt.Fprint(w, event)
			flusher.Flush()
		}
	}
}

// event creates the SSE event describing the current model of the file.
func (wa *Watcher) event() string {
	doc, _, err := wa.parse()
	if err != nil {
		msg := strings.ReplaceAll(err.Error(), "\n", " ")
		return "event: failure\ndata: " + msg + "\n\n"
	}
	return "data: " + doc.Digest + "\nretry: 5000\n\n"
}

// handleModel writes the model of the file as JSON or as text if the query parameter format is
// "text". Parse errors are written as a diagnostic with status 422.
func (wa *Watcher) handleModel(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "text" {
		http.Error(w, fmt.Sprintf("invalid format %q: must be one of json or text", format), http.StatusBadRequest)
		return
	}

	doc, src, err := wa.parse()
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if src == "" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = fmt.Fprint(w, err.Error())
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		if err := wa.diag.Fprint(w, wa.file, src, err); err != nil {
			wa.logger.Error("failed to write diagnostic", "error", err)
		}
		return
	}

	if format == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		err = doc.WriteText(w)
	} else {
		w.Header().Set("Content-Type", "application/json")
		err = doc.WriteJSON(w)
	}
	if err != nil {
		wa.logger.Error("failed to write model", "error", err)
	}
}

// parse reads and parses the file. The returned source is empty if the file could not be read.
func (wa *Watcher) parse() (*document.Document, string, error) {
	b, err := os.ReadFile(wa.file)
	if err != nil {
		return nil, "", err
	}
	src := string(b)
	doc, err := document.Parse(wa.dialect, src)
	if err != nil {
		return nil, src, err
	}
	if err := doc.ComputeDigest(); err != nil {
		return nil, src, err
	}
	return doc, src, nil
}
