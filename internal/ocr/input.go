package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
)

// MaxImageSizeBytes is the largest image accepted by any engine (20MB).
const MaxImageSizeBytes = 20 * 1024 * 1024

// ImageFormat is the encoding of an uploaded photo.
type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
)

// MIMEType returns the media type of the format.
func (f ImageFormat) MIMEType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// ScanInput is one image to recognize together with its language hint.
// Build it with NewScanInput; it must not be modified afterwards.
type ScanInput struct {
	data     []byte
	format   ImageFormat
	width    int
	height   int
	language Language
}

// NewScanInput validates that data is a JPEG or PNG bitmap and captures it
// with the language hint. The bytes are copied.
func NewScanInput(data []byte, language Language) (ScanInput, error) {
	const op = "NewScanInput"

	if len(data) == 0 {
		return ScanInput{}, WrapOCRError("input", op, ErrEmptyImage, "")
	}
	if len(data) > MaxImageSizeBytes {
		return ScanInput{}, WrapOCRError("input", op, ErrImageTooLarge, fmt.Sprintf("image size: %d bytes", len(data)))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ScanInput{}, WrapOCRError("input", op, ErrUnsupportedFormat, err.Error())
	}

	var imgFormat ImageFormat
	switch format {
	case "jpeg":
		imgFormat = FormatJPEG
	case "png":
		imgFormat = FormatPNG
	default:
		return ScanInput{}, WrapOCRError("input", op, ErrUnsupportedFormat, fmt.Sprintf("detected format %q", format))
	}

	if language == "" {
		language = English
	}

	return ScanInput{
		data:     bytes.Clone(data),
		format:   imgFormat,
		width:    cfg.Width,
		height:   cfg.Height,
		language: language,
	}, nil
}

// Bytes returns a copy of the encoded image.
func (in ScanInput) Bytes() []byte {
	return bytes.Clone(in.data)
}

// Size returns the encoded image size in bytes.
func (in ScanInput) Size() int {
	return len(in.data)
}

// Format returns the image encoding.
func (in ScanInput) Format() ImageFormat {
	return in.format
}

// Dimensions returns the pixel width and height of the image.
func (in ScanInput) Dimensions() (width, height int) {
	return in.width, in.height
}

// Language returns the recognition language hint.
func (in ScanInput) Language() Language {
	return in.language
}

// reader streams the image without copying it.
func (in ScanInput) reader() *bytes.Reader {
	return bytes.NewReader(in.data)
}
