package extract

import "regexp"

// IDNumberLength is the number of digits in an identification number.
const IDNumberLength = 9

var (
	digitRunPattern = regexp.MustCompile(`[0-9]+`)

	// Separators are matched independently, so "12.03/2020" is a date.
	datePattern = regexp.MustCompile(`[0-9]{2}[/.][0-9]{2}[/.][0-9]{4}`)
)

// Rule finds the candidate values for a single field in a transcript.
type Rule func(transcript string) []string

// IDNumberCandidates returns every maximal run of exactly nine ASCII digits,
// in document order. Runs of ten or more digits never contribute a candidate.
func IDNumberCandidates(transcript string) []string {
	var candidates []string
	for _, run := range digitRunPattern.FindAllString(transcript, -1) {
		if len(run) == IDNumberLength {
			candidates = append(candidates, run)
		}
	}
	return candidates
}

// DateCandidates returns every non-overlapping DD?MM?YYYY substring where each
// separator is '/' or '.'. Values are not checked against the calendar and
// repeated dates are kept.
func DateCandidates(transcript string) []string {
	return datePattern.FindAllString(transcript, -1)
}
