package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idscan/internal/extract"
)

func TestIDNumberCandidates(t *testing.T) {
	tests := []struct {
		transcript string
		want       []string
	}{
		{"", nil},
		{"123456789", []string{"123456789"}},
		{"x123456789y 987654321", []string{"123456789", "987654321"}},
		{"1234567890 123456789", []string{"123456789"}},
		{"12345678 1234567890", nil},
		{"123456789\n123456789", []string{"123456789", "123456789"}},
	}

	for _, tt := range tests {
		t.Run(tt.transcript, func(t *testing.T) {
			assert.Equal(t, tt.want, extract.IDNumberCandidates(tt.transcript))
		})
	}
}

func TestIDNumberCandidates_IgnoresNonASCIIDigits(t *testing.T) {
	// Arabic-Indic digits are not ASCII digits.
	assert.Nil(t, extract.IDNumberCandidates("١٢٣٤٥٦٧٨٩"))
}

func TestDateCandidates(t *testing.T) {
	tests := []struct {
		transcript string
		want       []string
	}{
		{"", nil},
		{"01/02.1990", []string{"01/02.1990"}},
		{"01/02/19901", []string{"01/02/1990"}},
		{"101/02/1990", []string{"01/02/1990"}},
		{"01/02/1990/03/04/2000", []string{"01/02/1990", "03/04/2000"}},
		{"a 01.01.2000 b 02.02.2000 c", []string{"01.01.2000", "02.02.2000"}},
	}

	for _, tt := range tests {
		t.Run(tt.transcript, func(t *testing.T) {
			assert.Equal(t, tt.want, extract.DateCandidates(tt.transcript))
		})
	}
}

func TestRulesAreIndependent(t *testing.T) {
	rules := []extract.Rule{extract.IDNumberCandidates, extract.DateCandidates}

	transcript := "ID 123456789 DOB 01/02/1990"
	got := make([][]string, 0, len(rules))
	for _, rule := range rules {
		got = append(got, rule(transcript))
	}

	require.Len(t, got, 2)
	assert.Equal(t, []string{"123456789"}, got[0])
	assert.Equal(t, []string{"01/02/1990"}, got[1])
}
