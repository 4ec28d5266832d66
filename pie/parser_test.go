package pie_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
	"github.com/teleivo/merm"
	"github.com/teleivo/merm/pie"
)

func title(s string) *string {
	return &s
}

func TestParse(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		tests := map[string]struct {
			in   string
			want pie.Pie
		}{
			"TitleAndShowData": {
				in: "pie showData title My Title\n\"A\": 1\n\"B\": 2",
				want: pie.Pie{
					Title:    title("My Title"),
					ShowData: true,
					Data:     []pie.Datum{{Label: "A", Value: 1}, {Label: "B", Value: 2}},
				},
			},
			"OnlyData": {
				in: "pie\n\t\"Dogs\" : 386\n\t\"Cats\" : 85.9\n\t\"Rats\" : 15\n",
				want: pie.Pie{
					Data: []pie.Datum{{Label: "Dogs", Value: 386}, {Label: "Cats", Value: 85.9}, {Label: "Rats", Value: 15}},
				},
			},
			"EmptyTitle": {
				in: `pie title   "A": 1`,
				want: pie.Pie{
					Title: title(""),
					Data:  []pie.Datum{{Label: "A", Value: 1}},
				},
			},
			"MultiLineTitle": {
				in: "pie title\n  Key elements\n  \"A\": 1",
				want: pie.Pie{
					Title: title("Key elements"),
					Data:  []pie.Datum{{Label: "A", Value: 1}},
				},
			},
			"ShowDataOnly": {
				in: `pie showData "A": .5`,
				want: pie.Pie{
					ShowData: true,
					Data:     []pie.Datum{{Label: "A", Value: 0.5}},
				},
			},
			"WhitespaceIsInsignificant": {
				in: "  pie\n\n  \"A\"\n:\n-1e2\t\"B\":0  \n",
				want: pie.Pie{
					Data: []pie.Datum{{Label: "A", Value: -100}, {Label: "B", Value: 0}},
				},
			},
			"LabelIsVerbatim": {
				in: `pie "  spaced: label ": 3 "Grüße":4`,
				want: pie.Pie{
					Data: []pie.Datum{{Label: "  spaced: label ", Value: 3}, {Label: "Grüße", Value: 4}},
				},
			},
		}

		for name, test := range tests {
			t.Run(name, func(t *testing.T) {
				got, err := pie.Parse(test.in)

				require.NoError(t, err, "Parse(%q)", test.in)
				assert.EqualValues(t, got.ShowData, test.want.ShowData, "Parse(%q)", test.in)
				assert.EqualValues(t, got.Data, test.want.Data, "Parse(%q)", test.in)
				if test.want.Title == nil {
					assert.True(t, got.Title == nil, "Parse(%q) want no title, got %v", test.in, got.Title)
				} else {
					require.NotNil(t, got.Title, "Parse(%q) want title %q", test.in, *test.want.Title)
					assert.EqualValues(t, *got.Title, *test.want.Title, "Parse(%q)", test.in)
				}
			})
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		in := "pie showData title Pets\n\"Dogs\": 386\n\"Cats\": 85"

		first, err := pie.Parse(in)
		require.NoError(t, err, "Parse(%q)", in)
		second, err := pie.Parse(in)
		require.NoError(t, err, "Parse(%q)", in)

		assert.EqualValues(t, *second, *first, "Parse(%q) twice", in)
	})

	t.Run("Invalid", func(t *testing.T) {
		tests := map[string]struct {
			in       string
			wantKind merm.ErrorKind
			wantErr  string
		}{
			"MissingKeyword": {
				in:       "flowchart LR",
				wantKind: merm.ExpectedLiteral,
				wantErr:  `1:1: expected "pie" but got "f"`,
			},
			"NoData": {
				in:       "pie",
				wantKind: merm.ExpectedLiteral,
				wantErr:  `1:4: expected "\"" but reached end of input`,
			},
			"NoDataButText": {
				in:       "pie\nfoo",
				wantKind: merm.ExpectedLiteral,
				wantErr:  `2:1: expected "\"" but got "f"`,
			},
			"TitleWithoutData": {
				in:       "pie title Hello",
				wantKind: merm.SearchExhausted,
				wantErr:  `1:10: reached end of input looking for "\""`,
			},
			"TrailingInput": {
				in:       "pie\n\"A\": 1\nfoo bar  \n",
				wantKind: merm.TrailingInput,
				wantErr:  `3:1: unexpected trailing input "foo bar"`,
			},
			"TrailingNumber": {
				in:       `pie "A": 1 2`,
				wantKind: merm.TrailingInput,
				wantErr:  `1:12: unexpected trailing input "2"`,
			},
			"UnclosedQuote": {
				in:       "pie\n\"A\": 1\n\"B: 2",
				wantKind: merm.UnclosedQuote,
				wantErr:  `3:1: unclosed quote: missing closing "\""`,
			},
			"MissingColon": {
				in:       `pie "A" 1`,
				wantKind: merm.ExpectedLiteral,
				wantErr:  `1:9: expected ":" but got "1"`,
			},
			"MissingValue": {
				in:       `pie "A":`,
				wantKind: merm.ExpectedNumber,
				wantErr:  `1:9: expected number but reached end of input`,
			},
			"InvalidValue": {
				in:       `pie "A": x`,
				wantKind: merm.ExpectedNumber,
				wantErr:  `1:10: expected number but got "x"`,
			},
			"ExponentWithoutDigits": {
				in:       `pie "A": 1e`,
				wantKind: merm.ExpectedNumber,
				wantErr:  `1:12: expected number but reached end of input`,
			},
		}

		for name, test := range tests {
			t.Run(name, func(t *testing.T) {
				got, err := pie.Parse(test.in)

				require.NotNil(t, err, "Parse(%q)", test.in)
				assert.True(t, got == nil, "Parse(%q) must not return a pie on error", test.in)
				var perr *merm.Error
				require.True(t, errors.As(err, &perr), "Parse(%q) must return a *merm.Error", test.in)
				assert.EqualValues(t, perr.Kind, test.wantKind, "Parse(%q)", test.in)
				assert.EqualValues(t, err.Error(), test.wantErr, "Parse(%q)", test.in)
			})
		}
	})

	t.Run("ValueOutOfRange", func(t *testing.T) {
		in := `pie "A": 1e999`

		_, err := pie.Parse(in)

		require.NotNil(t, err, "Parse(%q)", in)
		assert.True(t, errors.Is(err, strconv.ErrRange), "Parse(%q) must wrap strconv.ErrRange, got %v", in, err)
		assert.True(t, errors.Is(err, &merm.Error{Kind: merm.ExpectedNumber}), "Parse(%q) want ExpectedNumber, got %v", in, err)
	})
}

func TestParseLargeInput(t *testing.T) {
	const maxDuration = 5 * time.Second

	t.Run("ManyData", func(t *testing.T) {
		const n = 100_000
		in := "pie title Pets\n" + strings.Repeat("\"Dogs\": 1\n", n)

		start := time.Now()
		got, err := pie.Parse(in)
		elapsed := time.Since(start)

		require.NoError(t, err, "Parse(%d data)", n)
		assert.EqualValues(t, len(got.Data), n, "Parse(%d data)", n)
		assert.True(t, elapsed < maxDuration, "Parse(%d data) took %s", n, elapsed)
	})

	tests := map[string]struct {
		in       string
		wantKind merm.ErrorKind
	}{
		"UnclosedTitle": {
			in:       "pie title " + strings.Repeat("a", 1<<20),
			wantKind: merm.SearchExhausted,
		},
		"UnclosedLabel": {
			in:       "pie\n\"" + strings.Repeat("a", 1<<20),
			wantKind: merm.UnclosedQuote,
		},
		"LongExponent": {
			in:       `pie "A": 1e` + strings.Repeat("9", 1<<20),
			wantKind: merm.ExpectedNumber,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			start := time.Now()
			_, err := pie.Parse(test.in)
			elapsed := time.Since(start)

			require.NotNil(t, err, "Parse(%d bytes)", len(test.in))
			assert.True(t, errors.Is(err, &merm.Error{Kind: test.wantKind}), "Parse(%d bytes) want %s, got %v", len(test.in), test.wantKind, err)
			assert.True(t, elapsed < maxDuration, "Parse(%d bytes) took %s", len(test.in), elapsed)
		})
	}
}
