package fetch

import (
	"context"
	"os"
)

// FileFetcher reads images from the local filesystem. Local files need no
// cache tier of their own; the OS page cache already covers them.
type FileFetcher struct{}

// NewFileFetcher creates a file fetcher.
func NewFileFetcher() *FileFetcher {
	return &FileFetcher{}
}

// Fetch implements Fetcher.
func (f *FileFetcher) Fetch(ctx context.Context, source string) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Data: data, Local: true}, nil
}
