package cloze

import (
	"regexp"
	"strings"
)

// Option is one selectable choice decoded from an MC/MCS token body.
// Correct is server-side only and must not be shipped to clients.
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"-"`
}

// weightedOptionRe matches the percent-weight encoding %100%Paris.
var weightedOptionRe = regexp.MustCompile(`^%(\d+)%(.+)$`)

// Options decodes the token body into multiple-choice options. Two upstream
// encodings exist and are kept as distinct cases: a percent-encoded weight
// (%W%text, correct iff W == 100) and the MCS marker form where correct
// answers are prefixed with '=' (e.g. =A~B~C). Bare options are incorrect.
func (t Token) Options() []Option {
	if t.Kind() != KindMultipleChoice {
		return nil
	}

	parts := strings.Split(t.Body, "~")
	options := make([]Option, 0, len(parts))
	for _, part := range parts {
		if m := weightedOptionRe.FindStringSubmatch(part); m != nil {
			options = append(options, Option{Text: m[2], Correct: m[1] == "100"})
			continue
		}
		if rest, ok := strings.CutPrefix(part, "="); ok {
			options = append(options, Option{Text: rest, Correct: true})
			continue
		}
		options = append(options, Option{Text: part, Correct: false})
	}
	return options
}
