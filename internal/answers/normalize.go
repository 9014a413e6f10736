// Package answers decodes the per-question answer-key payload into a uniform
// shape. Two historical encodings exist upstream: a plain array of descriptor
// records ("legacy") and a structured object with a type tag and a questions
// list. Both are aligned positionally, in document order, with the cloze
// placeholders scanned out of the question markup.
package answers

import "encoding/json"

// Variant discriminates the decoded payload encoding.
type Variant string

const (
	// VariantNone marks an unparseable payload; everything degrades to
	// empty values and callers render the question without an answer key.
	VariantNone       Variant = ""
	VariantLegacy     Variant = "legacy"
	VariantStructured Variant = "structured"
)

// TypeTable is the structured type tag that moves reasoning from individual
// placeholders to a single question-level blob.
const TypeTable = "table"

// Descriptor is the answer-key record aligned to one cloze placeholder.
type Descriptor struct {
	CorrectAnswer string `json:"correct_answer,omitempty"`
	AIReasoning   string `json:"ai_reasoning,omitempty"`
	Guidelines    string `json:"guidelines,omitempty"`
}

// Payload is the normalized answer key for one question.
type Payload struct {
	Variant Variant
	// Type is "legacy" for array payloads, the raw type tag for structured
	// ones, empty when absent or unparseable.
	Type       string
	Guidelines string
	// TopReasoning is question-level reasoning, set only for structured
	// payloads tagged "table"; per-placeholder reasoning is suppressed
	// there in favor of this single blob.
	TopReasoning string
	Answers      []Descriptor
}

type structuredPayload struct {
	Type        string        `json:"type"`
	Guidelines  string        `json:"guidelines"`
	AIReasoning string        `json:"ai_reasoning"`
	Questions   []*Descriptor `json:"questions"`
}

// Normalize decodes answersJSON. It never fails: malformed input yields a
// VariantNone payload with an empty answer list.
func Normalize(answersJSON string) Payload {
	raw := []byte(answersJSON)

	// Legacy encoding: a bare array of descriptors. Entries carrying a
	// guidelines field are generator metadata, not answers, and are dropped.
	var legacy []*Descriptor
	if err := json.Unmarshal(raw, &legacy); err == nil {
		kept := make([]Descriptor, 0, len(legacy))
		for _, d := range legacy {
			if d == nil || d.Guidelines != "" {
				continue
			}
			kept = append(kept, *d)
		}
		return Payload{Variant: VariantLegacy, Type: "legacy", Answers: kept}
	}

	var structured structuredPayload
	if err := json.Unmarshal(raw, &structured); err != nil {
		return Payload{Variant: VariantNone}
	}

	p := Payload{
		Variant:    VariantStructured,
		Type:       structured.Type,
		Guidelines: structured.Guidelines,
	}
	if structured.Type == TypeTable {
		p.TopReasoning = structured.AIReasoning
	}
	p.Answers = make([]Descriptor, 0, len(structured.Questions))
	for _, d := range structured.Questions {
		if d == nil {
			d = &Descriptor{}
		}
		p.Answers = append(p.Answers, *d)
	}
	return p
}

// At returns the descriptor aligned with scan position pos, or false when the
// answer list is shorter than the placeholder count (mismatched counts from
// the backend degrade to "no answer key" for the unmatched tail).
func (p Payload) At(pos int) (Descriptor, bool) {
	if pos < 0 || pos >= len(p.Answers) {
		return Descriptor{}, false
	}
	return p.Answers[pos], true
}
