package extract_test

import (
	"fmt"

	"idscan/internal/extract"
)

// Example extracts the ID number and dates from a typical transcript.
func Example() {
	transcript := "STATE OF ISRAEL\nIdentity No. 123456789\nDate of birth 01/02/1990\nIssued 15.08.2019"

	result := extract.Extract(transcript)

	fmt.Println("ID:", result.IDNumber)
	for _, d := range result.Dates {
		fmt.Println("Date:", d)
	}
	fmt.Println("Outcome:", result.Outcome())
	// Output:
	// ID: 123456789
	// Date: 01/02/1990
	// Date: 15.08.2019
	// Outcome: complete
}

// ExampleExtract_blank shows how a blank transcript is reported.
func ExampleExtract_blank() {
	result := extract.Extract(" \n ")

	fmt.Println(result.IsEmpty, result.Outcome())
	// Output: true no_text
}

// ExampleNew shows a custom ranking strategy for the ID number.
func ExampleNew() {
	e := extract.New(extract.WithRanker(extract.MostFrequent))

	result := e.Extract("ref 555555555\nID 123456789\nID 123456789")

	fmt.Println(result.IDNumber)
	// Output: 123456789
}
