package pie

import (
	"strings"

	"github.com/teleivo/merm"
	"github.com/teleivo/merm/internal/scan"
)

// Parse parses src written in the pie dialect. The strings of the returned pie are substrings of
// src.
//
// The first error ends parsing and is returned as a [*merm.Error].
func Parse(src string) (*Pie, error) {
	c, err := scan.Literal(scan.Space(scan.New(src)), "pie")
	if err != nil {
		return nil, err
	}

	var p Pie
	c = scan.Space(c)
	if next, err := scan.Literal(c, "showData"); err == nil {
		p.ShowData = true
		c = scan.Space(next)
	}
	if next, err := scan.Literal(c, "title"); err == nil {
		title, next, err := scan.Until(next, `"`)
		if err != nil {
			return nil, err
		}
		title = strings.TrimSpace(title)
		p.Title = &title
		c = next
	}

	for c = scan.Space(c); !c.EOF(); c = scan.Space(c) {
		if c.Peek() != '"' {
			if len(p.Data) == 0 {
				break
			}
			return nil, &merm.Error{Kind: merm.TrailingInput, Pos: c.Pos(), Subject: c.TrimEnd().Rest()}
		}
		var d Datum
		d, c, err = datum(c)
		if err != nil {
			return nil, err
		}
		p.Data = append(p.Data, d)
	}
	if len(p.Data) == 0 {
		_, err := scan.Literal(c, `"`)
		return nil, err
	}
	return &p, nil
}

// datum parses a data point like
//
//	"Dogs" : 386
func datum(c scan.Cursor) (Datum, scan.Cursor, error) {
	label, c, err := scan.Quoted(c, '"')
	if err != nil {
		return Datum{}, c, err
	}
	c, err = scan.Literal(scan.Space(c), ":")
	if err != nil {
		return Datum{}, c, err
	}
	value, c, err := scan.Float(scan.Space(c))
	if err != nil {
		return Datum{}, c, err
	}
	return Datum{Label: label, Value: value}, c, nil
}
