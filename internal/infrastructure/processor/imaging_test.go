package processor

import (
	"bytes"
	"context"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestImage(t *testing.T, width, height int, format imaging.Format) []byte {
	t.Helper()

	img := imaging.New(width, height, color.NRGBA{R: 120, G: 80, B: 40, A: 255})

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))

	return buf.Bytes()
}

func decodedBounds(t *testing.T, data []byte) (int, int) {
	t.Helper()

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	b := img.Bounds()

	return b.Dx(), b.Dy()
}

func TestProcessDownscalesOversizedJPEG(t *testing.T) {
	p := New()

	in := encodeTestImage(t, 4200, 2100, imaging.JPEG)

	out, err := p.Process(context.Background(), "image/jpeg", in)
	require.NoError(t, err)

	w, h := decodedBounds(t, out)
	assert.LessOrEqual(t, w, MaxDimension)
	assert.LessOrEqual(t, h, MaxDimension)
	// aspect ratio 2:1 survives the resize
	assert.Equal(t, 4096, w)
	assert.Equal(t, 2048, h)
}

func TestProcessDownscalesOversizedHeight(t *testing.T) {
	p := New()

	in := encodeTestImage(t, 1000, 5000, imaging.PNG)

	out, err := p.Process(context.Background(), "image/png", in)
	require.NoError(t, err)

	w, h := decodedBounds(t, out)
	assert.Equal(t, 4096, h)
	assert.InDelta(t, 819, w, 1)
}

func TestProcessNeverUpscales(t *testing.T) {
	p := New()

	in := encodeTestImage(t, 320, 240, imaging.JPEG)

	out, err := p.Process(context.Background(), "image/jpeg", in)
	require.NoError(t, err)

	w, h := decodedBounds(t, out)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestProcessRecompressesPNGWithinBounds(t *testing.T) {
	p := New()

	in := encodeTestImage(t, 640, 480, imaging.PNG)

	out, err := p.Process(context.Background(), "image/png", in)
	require.NoError(t, err)

	w, h := decodedBounds(t, out)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestProcessGIFWithinBoundsPassesThrough(t *testing.T) {
	p := New()

	in := encodeTestImage(t, 50, 50, imaging.GIF)

	out, err := p.Process(context.Background(), "image/gif", in)
	require.NoError(t, err)

	assert.Equal(t, in, out)
}

func TestProcessRejectsCorruptData(t *testing.T) {
	p := New()

	_, err := p.Process(context.Background(), "image/jpeg", []byte("definitely not a jpeg"))
	assert.Error(t, err)
}
