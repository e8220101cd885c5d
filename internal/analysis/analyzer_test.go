package analysis

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidate(t *testing.T) {
	valid := pngBytes(t, 4, 4)

	tests := []struct {
		name string
		img  Image
		want error
	}{
		{"png upload", Image{Data: valid, ContentType: "image/png", Source: SourceUpload}, nil},
		{"sniffed type", Image{Data: valid, Source: SourceUpload}, nil},
		{"camera without data", Image{Source: SourceCamera}, nil},
		{"empty upload", Image{Source: SourceUpload}, ErrEmptyImage},
		{"pdf", Image{Data: []byte("%PDF-1.4"), ContentType: "application/pdf"}, ErrUnsupportedType},
		{"sniffed text", Image{Data: []byte("hello world")}, ErrUnsupportedType},
		{"too large", Image{Data: make([]byte, MaxImageSize+1), ContentType: "image/jpeg"}, ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.img)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestValidate_ExactLimitAccepted(t *testing.T) {
	img := Image{Data: make([]byte, MaxImageSize), ContentType: "image/jpeg"}
	assert.NoError(t, Validate(img))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Por favor, selecione um arquivo de imagem válido", UserMessage(ErrUnsupportedType))
	assert.Equal(t, "A imagem deve ter no máximo 5MB", UserMessage(ErrImageTooLarge))
	assert.Equal(t, "Análise cancelada", UserMessage(context.Canceled))
	assert.Equal(t, "Não foi possível analisar o rótulo. Tente novamente", UserMessage(ErrAnalysisFailed))
}

func TestDownscale(t *testing.T) {
	out, err := Downscale(pngBytes(t, 200, 100), 50)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())
}

func TestDownscale_KeepsSmallImages(t *testing.T) {
	out, err := Downscale(pngBytes(t, 30, 20), 50)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())
}

func TestDownscale_RejectsGarbage(t *testing.T) {
	_, err := Downscale([]byte("not an image"), 50)
	assert.Error(t, err)
}
