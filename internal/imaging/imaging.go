// Package imaging prepares cover art for ID3 embedding.
package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// Service converts downloaded cover art into tag-friendly JPEG data.
type Service struct{}

// NewService creates an imaging Service.
func NewService() *Service {
	return &Service{}
}

// PrepareCoverArt decodes data, scales it down to fit within
// maxSize x maxSize while preserving aspect ratio, and re-encodes it as
// JPEG (quality 90). Images already within bounds are only re-encoded.
// maxSize <= 0 disables scaling.
func (s *Service) PrepareCoverArt(data []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if maxSize > 0 && (width > maxSize || height > maxSize) {
		ratio := float64(width) / float64(height)
		if ratio >= 1 {
			width = maxSize
			height = int(float64(maxSize) / ratio)
		} else {
			height = maxSize
			width = int(float64(maxSize) * ratio)
		}

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
