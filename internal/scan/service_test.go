package scan_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idscan/internal/extract"
	"idscan/internal/ocr"
	"idscan/internal/ocr/ocrtest"
	"idscan/internal/scan"
)

func fixedClock(times ...time.Time) func() time.Time {
	var mu sync.Mutex
	i := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := times[len(times)-1]
		if i < len(times) {
			t = times[i]
		}
		i++
		return t
	}
}

func TestScan_ExtractsFields(t *testing.T) {
	start := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)

	fake := &ocrtest.Recognizer{Text: "STATE OF ISRAEL\nID 123456789\nDOB 01/02/1990\nEXP 01.02.2030\n"}
	svc := scan.NewService(fake, scan.WithClock(fixedClock(start, end)))

	input := ocrtest.Input(ocr.HebrewEnglish)
	report, err := svc.Scan(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "123456789", report.IDNumber)
	assert.True(t, report.HasIDNumber())
	assert.Equal(t, []string{"01/02/1990", "01.02.2030"}, report.Dates)
	assert.False(t, report.NoTextDetected)
	assert.Equal(t, string(extract.OutcomeComplete), report.Outcome)
	assert.Equal(t, fake.Text, report.Transcript)

	assert.Equal(t, "fake", report.Engine)
	assert.Equal(t, "heb+eng", report.Language)
	assert.Equal(t, "png", report.ImageFormat)
	assert.Equal(t, input.Size(), report.ImageSize)
	assert.Equal(t, 32, report.ImageWidth)
	assert.Equal(t, 16, report.ImageHeight)
	assert.Equal(t, end, report.ScannedAt)
	assert.Equal(t, 1500*time.Millisecond, report.ProcessingDuration)

	require.Len(t, fake.Calls(), 1)
	assert.Equal(t, ocr.HebrewEnglish, fake.Calls()[0].Language())
}

func TestScan_NoTextDetected(t *testing.T) {
	svc := scan.NewService(&ocrtest.Recognizer{Text: " \n\t "})

	report, err := svc.Scan(context.Background(), ocrtest.Input(ocr.English))
	require.NoError(t, err)

	assert.True(t, report.NoTextDetected)
	assert.Empty(t, report.IDNumber)
	assert.Equal(t, []string{}, report.Dates)
	assert.Equal(t, string(extract.OutcomeNoText), report.Outcome)
}

func TestScan_TextWithoutFields(t *testing.T) {
	svc := scan.NewService(&ocrtest.Recognizer{Text: "IDENTITY CARD"})

	report, err := svc.Scan(context.Background(), ocrtest.Input(ocr.English))
	require.NoError(t, err)

	assert.False(t, report.NoTextDetected)
	assert.Empty(t, report.IDNumber)
	assert.Empty(t, report.Dates)
	assert.Equal(t, string(extract.OutcomeNoFields), report.Outcome)
}

func TestScan_FailuresNeverReturnPartialReport(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantUnavailable bool
	}{
		{"engine unavailable", ocr.WrapOCRError("fake", "Recognize", ocr.ErrTesseractNotFound, ""), true},
		{"recognition failed", ocr.WrapOCRError("fake", "Recognize", ocr.ErrUnsupportedFormat, ""), false},
		{"unclassified error", errors.New("segfault in engine"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := scan.NewService(&ocrtest.Recognizer{Text: "ID 123456789", Err: tt.err})

			report, err := svc.Scan(context.Background(), ocrtest.Input(ocr.English))
			require.Error(t, err)
			assert.Nil(t, report)
			assert.Equal(t, tt.wantUnavailable, ocr.IsEngineUnavailable(err))
			assert.Equal(t, !tt.wantUnavailable, ocr.IsRecognitionFailed(err))
		})
	}
}

func TestScan_TimeoutBoundsRecognition(t *testing.T) {
	svc := scan.NewService(&ocrtest.Recognizer{Block: true}, scan.WithTimeout(20*time.Millisecond))

	report, err := svc.Scan(context.Background(), ocrtest.Input(ocr.English))
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, ocr.IsRecognitionFailed(err))
}

func TestScan_WithExtractorRanking(t *testing.T) {
	fake := &ocrtest.Recognizer{Text: "card 111111111\nID 222222222\nID 222222222"}
	svc := scan.NewService(fake, scan.WithExtractor(extract.New(extract.WithRanker(extract.MostFrequent))))

	report, err := svc.Scan(context.Background(), ocrtest.Input(ocr.English))
	require.NoError(t, err)
	assert.Equal(t, "222222222", report.IDNumber)
}

func TestScan_ConcurrentScansAreIndependent(t *testing.T) {
	svc := scan.NewService(&ocrtest.Recognizer{Text: "ID 123456789 01/02/1990"})

	var wg sync.WaitGroup
	reports := make([]string, 16)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			report, err := svc.Scan(context.Background(), ocrtest.Input(ocr.English))
			if err == nil {
				reports[i] = report.IDNumber
			}
		}(i)
	}
	wg.Wait()

	for _, id := range reports {
		assert.Equal(t, "123456789", id)
	}
}

func TestReportFromResult_CopiesDates(t *testing.T) {
	result := extract.Extract("01/02/1990")
	report := scan.ReportFromResult(result)

	report.Dates[0] = "changed"
	assert.Equal(t, "01/02/1990", result.Dates[0])
}

func TestService_Close(t *testing.T) {
	fake := &ocrtest.Recognizer{}
	svc := scan.NewService(fake)

	assert.Equal(t, "fake", svc.Engine())
	require.NoError(t, svc.Close())
	assert.True(t, fake.Closed())
}
