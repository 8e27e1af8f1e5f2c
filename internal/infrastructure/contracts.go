package infrastructure

import "context"

type (
	ImageProcessor interface {
		Process(ctx context.Context, contentType string, data []byte) ([]byte, error)
	}
)
