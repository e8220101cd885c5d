// Package analysis reads product labels and reports ingredients, allergens
// and nutrition facts. The default Analyzer is a mock with canned results; a
// Tesseract-backed analyzer can be swapped in through the same interface.
package analysis

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/foxxcyber/healthy-food/internal/models"
)

// MaxImageSize is the largest accepted label image
const MaxImageSize = 5 * 1024 * 1024

// Source is where an image came from
type Source string

const (
	SourceUpload Source = "upload"
	SourceCamera Source = "camera"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrImageTooLarge   = errors.New("image too large")
	ErrEmptyImage      = errors.New("empty image")
	ErrAnalysisFailed  = errors.New("label analysis failed")
	ErrUnavailable     = errors.New("label analyzer unavailable")
)

// Image is a label image submitted for analysis. Camera captures may carry
// no data.
type Image struct {
	Data        []byte
	ContentType string
	Filename    string
	Source      Source
}

// Size returns the image size in bytes
func (img Image) Size() int {
	return len(img.Data)
}

// Analyzer turns a label image into an AnalysisResult. Implementations must
// return ctx.Err() when ctx is cancelled before a result is ready.
type Analyzer interface {
	Analyze(ctx context.Context, img Image) (*models.AnalysisResult, error)
}

// Validate rejects non-image content and images over MaxImageSize. When the
// content type is missing it is sniffed from the data.
func Validate(img Image) error {
	if img.Source == SourceCamera && len(img.Data) == 0 {
		return nil
	}
	if len(img.Data) == 0 {
		return ErrEmptyImage
	}

	contentType := img.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(img.Data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return ErrUnsupportedType
	}
	if img.Size() > MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}

// UserMessage returns the message shown to the user for an analysis error
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedType), errors.Is(err, ErrEmptyImage):
		return "Por favor, selecione um arquivo de imagem válido"
	case errors.Is(err, ErrImageTooLarge):
		return "A imagem deve ter no máximo 5MB"
	case errors.Is(err, ErrUnavailable):
		return "Leitura de rótulos indisponível no momento"
	case errors.Is(err, context.Canceled):
		return "Análise cancelada"
	default:
		return "Não foi possível analisar o rótulo. Tente novamente"
	}
}

func cloneResult(r *models.AnalysisResult) *models.AnalysisResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Ingredients = append([]string{}, r.Ingredients...)
	c.Allergens = append([]string{}, r.Allergens...)
	c.Warnings = append([]string{}, r.Warnings...)
	return &c
}
