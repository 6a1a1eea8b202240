// Package extract turns a raw OCR transcript of an identity document into
// structured fields.
//
// Two fields are recognised:
//   - an identification number: a run of exactly nine digits bounded by
//     non-digits or the edges of the transcript
//   - dates shaped DD/MM/YYYY or DD.MM.YYYY, separators mixed freely
//
// Matching is purely syntactic. Checksums and calendar validity are left to
// the caller. Extraction never fails: a missing field is reported as absent.
package extract

import "strings"

// Outcome summarises what an extraction found.
type Outcome string

const (
	// OutcomeNoText means the transcript held nothing but whitespace.
	OutcomeNoText Outcome = "no_text"
	// OutcomeNoFields means there was text, but neither field matched.
	OutcomeNoFields Outcome = "no_fields"
	// OutcomePartial means exactly one of the two fields matched.
	OutcomePartial Outcome = "partial"
	// OutcomeComplete means an ID number and at least one date were found.
	OutcomeComplete Outcome = "complete"
)

// Result is the structured view of one transcript.
type Result struct {
	// Transcript is the text the result was extracted from, kept for display.
	Transcript string `json:"transcript"`

	// IDNumber is the chosen nine-digit identification number, or "" when
	// none was found.
	IDNumber string `json:"id_number,omitempty"`

	// Dates holds every date-shaped substring in order of appearance.
	// It is never nil.
	Dates []string `json:"dates"`

	// IsEmpty reports whether the transcript was blank after trimming.
	IsEmpty bool `json:"is_empty"`
}

// HasIDNumber reports whether an identification number was found.
func (r Result) HasIDNumber() bool {
	return r.IDNumber != ""
}

// HasDates reports whether at least one date was found.
func (r Result) HasDates() bool {
	return len(r.Dates) > 0
}

// Outcome classifies the result for presentation.
func (r Result) Outcome() Outcome {
	switch {
	case r.IsEmpty:
		return OutcomeNoText
	case r.HasIDNumber() && r.HasDates():
		return OutcomeComplete
	case r.HasIDNumber() || r.HasDates():
		return OutcomePartial
	default:
		return OutcomeNoFields
	}
}

// Extractor applies the field rules to transcripts. The zero value is not
// usable; construct one with New. An Extractor holds no mutable state and is
// safe for concurrent use.
type Extractor struct {
	idRule   Rule
	dateRule Rule
	ranker   Ranker
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRanker sets the strategy used to choose among ID number candidates.
func WithRanker(r Ranker) Option {
	return func(e *Extractor) {
		if r != nil {
			e.ranker = r
		}
	}
}

// New returns an Extractor that picks the first ID number candidate unless
// configured otherwise.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		idRule:   IDNumberCandidates,
		dateRule: DateCandidates,
		ranker:   First,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExtractor = New()

// Extract runs the default Extractor over transcript.
func Extract(transcript string) Result {
	return defaultExtractor.Extract(transcript)
}

// Extract pulls the ID number and dates out of transcript.
func (e *Extractor) Extract(transcript string) Result {
	if strings.TrimSpace(transcript) == "" {
		return Result{
			Transcript: transcript,
			Dates:      []string{},
			IsEmpty:    true,
		}
	}

	id, _ := e.ranker.Pick(e.idRule(transcript))

	dates := e.dateRule(transcript)
	if dates == nil {
		dates = []string{}
	}

	return Result{
		Transcript: transcript,
		IDNumber:   id,
		Dates:      dates,
	}
}
