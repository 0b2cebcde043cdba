package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func TestPrepareCoverArt_ScalesDownOversized(t *testing.T) {
	service := NewService()

	out, err := service.PrepareCoverArt(encodePNG(t, 400, 200), 100)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy(), "aspect ratio preserved")
}

func TestPrepareCoverArt_KeepsSmallImages(t *testing.T) {
	service := NewService()

	out, err := service.PrepareCoverArt(encodePNG(t, 60, 80), 100)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestPrepareCoverArt_ZeroMaxDisablesScaling(t *testing.T) {
	service := NewService()

	out, err := service.PrepareCoverArt(encodePNG(t, 300, 300), 0)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
}

func TestPrepareCoverArt_RejectsGarbage(t *testing.T) {
	service := NewService()

	_, err := service.PrepareCoverArt([]byte("not an image"), 100)
	assert.Error(t, err)
}
