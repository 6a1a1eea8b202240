package models

import "time"

type ScanReport struct {
	// Extracted fields
	Transcript     string   `json:"transcript"`          // Raw OCR text, kept for display and audit
	IDNumber       string   `json:"id_number,omitempty"` // Nine-digit identification number, empty when not found
	Dates          []string `json:"dates"`               // Date-shaped strings in order of appearance
	NoTextDetected bool     `json:"no_text_detected"`    // Transcript was blank: ask for a clearer photo
	Outcome        string   `json:"outcome"`             // no_text, no_fields, partial or complete

	// Scan metadata
	Engine             string        `json:"engine"`              // OCR engine that produced the transcript
	Language           string        `json:"language"`            // Language hint passed to the engine
	ImageFormat        string        `json:"image_format"`        // jpeg or png
	ImageSize          int           `json:"image_size"`          // Encoded image size in bytes
	ImageWidth         int           `json:"image_width"`         // Pixels
	ImageHeight        int           `json:"image_height"`        // Pixels
	ScannedAt          time.Time     `json:"scanned_at"`          // When recognition finished
	ProcessingDuration time.Duration `json:"processing_duration"` // Recognition plus extraction time
}

// HasIDNumber reports whether an identification number was found.
func (r *ScanReport) HasIDNumber() bool {
	return r.IDNumber != ""
}
