//go:build !cgo || windows

package analysis

import (
	"context"

	"github.com/foxxcyber/healthy-food/internal/models"
)

// TesseractAnalyzer is unavailable on Windows
type TesseractAnalyzer struct{}

// NewTesseractAnalyzer fails on Windows - run in the Docker image instead
func NewTesseractAnalyzer() (*TesseractAnalyzer, error) {
	return nil, ErrUnavailable
}

// Analyze always fails on Windows
func (a *TesseractAnalyzer) Analyze(ctx context.Context, img Image) (*models.AnalysisResult, error) {
	return nil, ErrUnavailable
}

// Close releases OCR resources
func (a *TesseractAnalyzer) Close() error {
	return nil
}
