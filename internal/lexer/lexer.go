// Package lexer splits diagram source code of either dialect into tokens.
//
// The parsers do not use it. It backs the tokens command which shows how source code is seen
// token by token.
package lexer

import (
	"iter"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/teleivo/merm"
	"github.com/teleivo/merm/internal/scan"
	"github.com/teleivo/merm/token"
)

// tracer traces with key 'merm.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("merm.lexer")
}

// Lexer is a compiled DFA matching the tokens of both dialects. It can be used to tokenize any
// number of inputs.
type Lexer struct {
	lexer *lexmachine.Lexer
}

// New compiles the lexer.
func New() (*Lexer, error) {
	lexer := lexmachine.NewLexer()
	// Patterns matching the same length are resolved in the order they are added.
	lexer.Add([]byte(`%%[^\n]*`), skip)
	lexer.Add([]byte(`( |\t|\n|\r)+`), skip)
	lexer.Add([]byte(`\"[^"]*\"`), makeToken(token.String))
	lexer.Add([]byte(`\|[^\|\n]*\|`), makeToken(token.String))
	lexer.Add([]byte(`([0-9]+(\.[0-9]*)?|\.[0-9]+)((e|E)(\+|-)?[0-9]+)?`), makeToken(token.Number))

	keywords := make([]string, 0, len(token.Keywords))
	for kw := range token.Keywords {
		keywords = append(keywords, kw)
	}
	slices.Sort(keywords)
	for _, kw := range keywords {
		lexer.Add([]byte(kw), makeToken(token.Keywords[kw]))
	}
	lexer.Add([]byte(`([a-z]|[A-Z]|[0-9])+`), makeToken(token.Ident))
	for _, kind := range token.Punctuation {
		lit := kind.String()
		lexer.Add([]byte(`\`+strings.Join(strings.Split(lit, ""), `\`)), makeToken(kind))
	}

	if err := lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	return &Lexer{lexer: lexer}, nil
}

func skip(*lexmachine.Scanner, *machines.Match) (any, error) {
	return nil, nil
}

func makeToken(kind token.Kind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (any, error) {
		return s.Token(int(kind), nil, m), nil
	}
}

// All returns an iterator over the tokens of src ending with an [token.EOF] token. A printable
// character that starts no other token is yielded as a [token.Text] token of that single
// character, like the ? in a label. Input that cannot occur in either dialect, like control
// characters or invalid UTF-8, is yielded as an [token.ILLEGAL] token together with an
// [*merm.Error] of kind [merm.IllegalToken]. Tokenizing continues after it.
func (l *Lexer) All(src string) iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		s, err := l.lexer.Scanner([]byte(src))
		if err != nil {
			yield(token.Token{Kind: token.ILLEGAL}, err)
			return
		}

		cur := scan.New(src)
		// positions are requested in increasing offsets
		position := func(offset int) token.Position {
			cur = cur.Advance(offset - cur.Pos().Offset)
			return cur.Pos()
		}

		for {
			tok, err, eof := s.Next()
			if eof {
				end := position(len(src))
				yield(token.Token{Kind: token.EOF, Start: end, End: end}, nil)
				return
			}

			if ui, ok := err.(*machines.UnconsumedInput); ok {
				r, size := utf8.DecodeRuneInString(src[ui.StartTC:])
				if scan.IsSpace(r) {
					s.TC = ui.StartTC + size
					continue
				}
				if isText(r, size) {
					s.TC = ui.StartTC + size
					t := token.Token{Kind: token.Text, Literal: src[ui.StartTC:s.TC]}
					t.Start = position(ui.StartTC)
					t.End = position(s.TC)
					tracer().Debugf("token %s %q at %s", t.Kind, t.Literal, t.Start)
					if !yield(t, nil) {
						return
					}
					continue
				}

				next := resume(src, ui)
				s.TC = next
				illegal := token.Token{Kind: token.ILLEGAL, Literal: src[ui.StartTC:next]}
				illegal.Start = position(ui.StartTC)
				illegal.End = position(next)
				tracer().Errorf("illegal token %q at %s", illegal.Literal, illegal.Start)
				err := &merm.Error{Kind: merm.IllegalToken, Pos: illegal.Start, Subject: illegal.Literal}
				if !yield(illegal, err) {
					return
				}
				continue
			} else if err != nil {
				yield(token.Token{Kind: token.ILLEGAL}, err)
				return
			}

			lt := tok.(*lexmachine.Token)
			t := token.Token{
				Kind:    token.Kind(lt.Type),
				Literal: src[lt.TC : lt.TC+len(lt.Lexeme)],
			}
			t.Start = position(lt.TC)
			t.End = position(lt.TC + len(lt.Lexeme))
			tracer().Debugf("token %s %q at %s", t.Kind, t.Literal, t.Start)
			if !yield(t, nil) {
				return
			}
		}
	}
}

// isText reports whether the rune r of given encoded size can be part of a label. Labels may
// contain any printable character. Control characters and invalid UTF-8 cannot occur in either
// dialect.
func isText(r rune, size int) bool {
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	return unicode.IsGraphic(r)
}

// resume returns the offset to continue scanning at after unmatched input. It skips at least one
// rune and never stops inside a rune.
func resume(src string, ui *machines.UnconsumedInput) int {
	next := ui.FailTC
	if next <= ui.StartTC {
		_, size := utf8.DecodeRuneInString(src[ui.StartTC:])
		next = ui.StartTC + size
	}
	for next < len(src) && !utf8.RuneStart(src[next]) {
		next++
	}
	return min(next, len(src))
}
