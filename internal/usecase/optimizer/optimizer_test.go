package optimizer

import (
	"context"
	"errors"
	"testing"

	"github.com/andreyxaxa/Image-Gallery/pkg/logger"
	"github.com/stretchr/testify/assert"
)

type stubProcessor struct {
	out []byte
	err error

	calls int
}

func (s *stubProcessor) Process(_ context.Context, _ string, _ []byte) ([]byte, error) {
	s.calls++

	return s.out, s.err
}

func TestOptimizeReturnsProcessedBytes(t *testing.T) {
	p := &stubProcessor{out: []byte("optimized")}
	uc := New(p, logger.New("error"))

	out := uc.Optimize(context.Background(), "image/jpeg", []byte("original"))

	assert.Equal(t, []byte("optimized"), out)
	assert.Equal(t, 1, p.calls)
}

func TestOptimizeFallsBackOnProcessorFailure(t *testing.T) {
	p := &stubProcessor{err: errors.New("corrupt image")}
	uc := New(p, logger.New("error"))

	original := []byte("original bytes")
	out := uc.Optimize(context.Background(), "image/jpeg", original)

	assert.Equal(t, original, out)
}

func TestOptimizeBypassesSVG(t *testing.T) {
	p := &stubProcessor{out: []byte("should never be used")}
	uc := New(p, logger.New("error"))

	original := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	out := uc.Optimize(context.Background(), "image/svg+xml", original)

	assert.Equal(t, original, out)
	assert.Zero(t, p.calls)
}
