package cloze

import (
	"regexp"
	"strconv"
)

// Kind classifies the input widget a placeholder maps to.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindNumerical      Kind = "numerical"
	KindText           Kind = "text"
)

// Tags with dedicated widget handling. Anything else degrades to free text.
const (
	TagMC        = "MC"
	TagMCS       = "MCS"
	TagNumerical = "NUMERICAL"
)

// tokenRe matches Moodle-style cloze placeholders embedded in question
// markup: an opening brace, a numeric index, an uppercase kind tag and an
// opaque body, colon-separated, e.g. {1:MC:%100%Paris~%0%London}.
var tokenRe = regexp.MustCompile(`\{(\d+):([A-Z]+):([^}]+)\}`)

// Token is a single placeholder extracted from question markup.
type Token struct {
	// Position is the 0-based scan ordinal in document order. It is the
	// key that aligns the token with its answer descriptor; the numeric
	// index embedded in the token text is informational only.
	Position int `json:"position"`
	// Index is the numeric index embedded in the token text.
	Index int `json:"index"`
	// Tag is the raw uppercase kind tag, e.g. "MC" or "SHORTANSWER".
	Tag string `json:"tag"`
	// Body is the opaque token body after the second colon.
	Body string `json:"body"`
	// Raw is the full matched placeholder text, braces included.
	Raw string `json:"raw"`
}

// Kind maps the token tag onto a widget kind.
func (t Token) Kind() Kind {
	switch t.Tag {
	case TagMC, TagMCS:
		return KindMultipleChoice
	case TagNumerical:
		return KindNumerical
	default:
		return KindText
	}
}

// Segment is one element of the literal/placeholder alternation produced by
// Split. Exactly one of Literal or Token is meaningful: Token == nil means a
// literal markup run.
type Segment struct {
	Literal string
	Token   *Token
}

// ContainsToken reports whether text holds at least one placeholder.
func ContainsToken(text string) bool {
	return tokenRe.MatchString(text)
}

// Split scans text left to right and returns the alternation of literal runs
// and placeholder tokens. Concatenating literals and token raw text in order
// reproduces the input byte for byte. Token positions start at firstPos so
// callers splitting multiple text runs of one document can keep a single
// document-wide ordinal sequence.
func Split(text string, firstPos int) []Segment {
	matches := tokenRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{Literal: text}}
	}

	segments := make([]Segment, 0, 2*len(matches)+1)
	last := 0
	for i, m := range matches {
		if m[0] > last {
			segments = append(segments, Segment{Literal: text[last:m[0]]})
		}
		idx, _ := strconv.Atoi(text[m[2]:m[3]])
		segments = append(segments, Segment{Token: &Token{
			Position: firstPos + i,
			Index:    idx,
			Tag:      text[m[4]:m[5]],
			Body:     text[m[6]:m[7]],
			Raw:      text[m[0]:m[1]],
		}})
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Literal: text[last:]})
	}
	return segments
}

// Tokens returns only the placeholder tokens of a segment list, in order.
func Tokens(segments []Segment) []Token {
	var tokens []Token
	for _, seg := range segments {
		if seg.Token != nil {
			tokens = append(tokens, *seg.Token)
		}
	}
	return tokens
}
