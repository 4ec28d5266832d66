package rpc

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	maxHeaderLineLength = 4096
	maxContentLength    = 20 << 20 // 20MB
)

// Scanner reads JSON-RPC messages framed by the base protocol from an [io.Reader]. Headers other
// than Content-Length are skipped. Header lines may end in \n instead of \r\n.
type Scanner struct {
	sc *bufio.Scanner
}

// NewScanner returns a new Scanner that reads from r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, maxHeaderLineLength), maxContentLength+16*maxHeaderLineLength)
	sc.Split(splitMessage)
	return &Scanner{sc: sc}
}

// Scan reads the next message. It returns false at the end of input or on error.
func (s *Scanner) Scan() bool {
	return s.sc.Scan()
}

// Err returns the first error other than [io.EOF] encountered by the Scanner.
func (s *Scanner) Err() error {
	return s.sc.Err()
}

// Bytes returns the content of the most recent message. It may be overwritten by the next call to
// Scan.
func (s *Scanner) Bytes() []byte {
	return s.sc.Bytes()
}

// Text returns the content of the most recent message.
func (s *Scanner) Text() string {
	return s.sc.Text()
}

// splitMessage is a [bufio.SplitFunc] returning the content of one message.
func splitMessage(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	length := -1
	i := 0
	for {
		n := bytes.IndexByte(data[i:], '\n')
		if n < 0 {
			if len(data)-i > maxHeaderLineLength {
				return 0, nil, errors.New("header line too long: exceeds maximum of 4KB")
			}
			if !atEOF {
				return 0, nil, nil
			}
			if length >= 0 {
				return 0, nil, errors.New("expected empty line before content")
			}
			return 0, nil, errors.New("unexpected EOF in header")
		}
		if n > maxHeaderLineLength {
			return 0, nil, errors.New("header line too long: exceeds maximum of 4KB")
		}

		line := bytes.TrimSuffix(data[i:i+n], []byte("\r"))
		i += n + 1
		if len(line) == 0 {
			if length < 0 {
				return 0, nil, errors.New("expected content-length header")
			}
			break
		}

		name, value, ok := bytes.Cut(line, []byte(":"))
		if !ok {
			return 0, nil, fmt.Errorf("invalid header: expected 'name: value', got %q", line)
		}
		if !bytes.EqualFold(bytes.TrimSpace(name), []byte("Content-Length")) {
			continue
		}
		var err error
		if length, err = contentLength(bytes.TrimSpace(value)); err != nil {
			return 0, nil, err
		}
	}

	if len(data)-i < length {
		if atEOF {
			return 0, nil, fmt.Errorf("unexpected EOF: read %d of %d content bytes", len(data)-i, length)
		}
		return 0, nil, nil
	}
	return i + length, data[i : i+length], nil
}

func contentLength(value []byte) (int, error) {
	length, err := strconv.Atoi(string(value))
	if err != nil {
		return 0, fmt.Errorf("invalid content-length: expected number, got %q", value)
	}
	if length < 0 {
		return 0, fmt.Errorf("invalid content-length: expected positive number, got %q", value)
	}
	if length > maxContentLength {
		return 0, fmt.Errorf("invalid content-length: exceeds maximum of 20MB, got %d", length)
	}
	return length, nil
}
