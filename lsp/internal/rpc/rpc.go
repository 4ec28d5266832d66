// Package rpc implements the JSON-RPC messages and the base protocol framing used by the
// language server protocol.
//
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#baseProtocol
package rpc

import (
	"encoding/json"
	"fmt"
)

// Error codes defined by JSON-RPC.
const (
	ParseError     int64 = -32700
	InvalidRequest int64 = -32600
	MethodNotFound int64 = -32601
	InvalidParams  int64 = -32602
	InternalError  int64 = -32603
)

// ServerNotInitialized is the error code of requests received before the initialize request.
const ServerNotInitialized int64 = -32002

// Message is a request or a notification sent by the client. Notifications have no ID. Params
// are decoded once the method is known.
type Message struct {
	Version Version         `json:"jsonrpc"`
	ID      *ID             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsRequest reports whether the client expects a response to the message.
func (m Message) IsRequest() bool {
	return m.ID != nil
}

// Response is the answer to a request. Exactly one of Result and Error is set.
type Response struct {
	Version Version         `json:"jsonrpc"`
	ID      *ID             `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Notification is a message sent by the server that is not answered.
type Notification struct {
	Version Version `json:"jsonrpc"`
	Method  string  `json:"method"`
	Params  any     `json:"params,omitempty"`
}

// Error represents a structured error in a response.
type Error struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// Version encodes as the jsonrpc version tag. Decoding fails on any other version.
type Version struct{}

func (Version) MarshalJSON() ([]byte, error) {
	return json.Marshal("2.0")
}

func (v *Version) UnmarshalJSON(data []byte) error {
	var version string
	if err := json.Unmarshal(data, &version); err != nil {
		return err
	}
	if version != "2.0" {
		return fmt.Errorf("invalid RPC version %q", version)
	}
	return nil
}

// ID is a request identifier that is either a string or an integer.
type ID struct {
	name   string
	number int64
}

func (id *ID) MarshalJSON() ([]byte, error) {
	if id.name != "" {
		return json.Marshal(id.name)
	}
	return json.Marshal(id.number)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ID{}
	if err := json.Unmarshal(data, &id.number); err == nil {
		return nil
	}
	return json.Unmarshal(data, &id.name)
}
