package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	// register WEBP decoding, imaging only encodes it via chai2010/webp
	_ "golang.org/x/image/webp"
)

const (
	// MaxDimension caps the longest side of a stored image.
	MaxDimension = 4096

	jpegQuality = 85
	webpQuality = 85
)

type ImageProcessor struct {
}

func New() *ImageProcessor {
	return &ImageProcessor{}
}

// Process resizes the image so both dimensions fit into MaxDimension
// (never upscaling) and re-encodes it with the format's quality policy.
// Formats without a recompression policy pass through byte-identical
// unless the resize step applied.
func (p *ImageProcessor) Process(ctx context.Context, contentType string, data []byte) ([]byte, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Process - decodeImage: %w", err)
	}

	bounds := img.Bounds()
	needsResize := bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension

	if needsResize {
		// Fit preserves aspect ratio and never enlarges
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer

	switch contentType {
	case "image/jpeg", "image/jpg":
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	case "image/png":
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case "image/webp":
		err = webp.Encode(&buf, img, &webp.Options{Quality: webpQuality})
	case "image/gif":
		if !needsResize {
			return data, nil
		}
		err = imaging.Encode(&buf, img, imaging.GIF)
	default:
		return data, nil
	}

	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Process - encode: %w", err)
	}

	return buf.Bytes(), nil
}

func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - decodeImage - imaging.Decode: %w", err)
	}

	return img, nil
}
