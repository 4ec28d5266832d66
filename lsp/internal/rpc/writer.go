package rpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Writer writes JSON-RPC messages to an [io.Writer] using the base protocol framing. Each message
// is preceded by a Content-Length header and an empty line.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a new Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Respond answers the request with the given id. A nil result is sent as null.
func (w *Writer) Respond(id *ID, result any) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return w.RespondError(id, InternalError, fmt.Sprintf("failed to encode result: %v", err))
	}
	return w.write(Response{ID: id, Result: raw})
}

// RespondError answers the request with the given id with an error. The id is nil if the request
// could not be decoded.
func (w *Writer) RespondError(id *ID, code int64, message string) error {
	return w.write(Response{ID: id, Error: &Error{Code: code, Message: message}})
}

// Notify sends a notification.
func (w *Writer) Notify(method string, params any) error {
	return w.write(Notification{Method: method, Params: params})
}

func (w *Writer) write(msg any) error {
	content, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.w, "Content-Length: %d\r\n\r\n", len(content)); err != nil {
		return err
	}
	if _, err := w.w.Write(content); err != nil {
		return err
	}
	return w.w.Flush()
}
