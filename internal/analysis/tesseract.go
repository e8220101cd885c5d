//go:build cgo && !windows

package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/foxxcyber/healthy-food/internal/models"
)

// TesseractAnalyzer reads labels with Tesseract OCR and parses the text
type TesseractAnalyzer struct {
	mu     sync.Mutex
	client *gosseract.Client
	parser *LabelParser
}

// NewTesseractAnalyzer creates an OCR analyzer for Portuguese labels
func NewTesseractAnalyzer() (*TesseractAnalyzer, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("por"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Labels are mostly a single block of text
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	return &TesseractAnalyzer{
		client: client,
		parser: NewLabelParser(),
	}, nil
}

// Analyze runs OCR on the image. Camera captures without image data cannot
// be read and return ErrEmptyImage.
func (a *TesseractAnalyzer) Analyze(ctx context.Context, img Image) (*models.AnalysisResult, error) {
	if len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}
	if err := Validate(img); err != nil {
		return nil, err
	}

	data, err := Downscale(img.Data, maxOCRWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	type ocrOutcome struct {
		text string
		err  error
	}
	done := make(chan ocrOutcome, 1)
	go func() {
		text, err := a.recognize(data)
		done <- ocrOutcome{text, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, out.err)
		}
		return a.parser.Parse(out.text), nil
	}
}

// recognize serialises access to the client, which is not goroutine safe
func (a *TesseractAnalyzer) recognize(data []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := a.client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	return text, nil
}

// Close releases OCR resources
func (a *TesseractAnalyzer) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}
