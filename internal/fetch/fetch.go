// Package fetch retrieves raw image bytes from their source: local
// files, or HTTP with disk-cache-backed conditional revalidation.
package fetch

import (
	"context"
	"fmt"
	"strings"
)

// Payload is the outcome of a successful fetch.
type Payload struct {
	Data []byte

	// FromDisk is true when the bytes were served by the disk cache
	// rather than retrieved from the source this attempt.
	FromDisk bool

	// Local is true when the bytes were read off the local filesystem.
	Local bool
}

// Fetcher retrieves the raw bytes behind one kind of source locator.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (Payload, error)
}

// Registry routes source locators to fetchers by URL scheme. Sources
// without a scheme are treated as local file paths.
type Registry struct {
	http Fetcher
	file Fetcher
}

// NewRegistry builds a registry from the two supported fetchers.
func NewRegistry(httpFetcher, fileFetcher Fetcher) *Registry {
	return &Registry{http: httpFetcher, file: fileFetcher}
}

// Fetch dispatches to the fetcher matching the source's scheme.
func (r *Registry) Fetch(ctx context.Context, source string) (Payload, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		if r.http == nil {
			return Payload{}, fmt.Errorf("no http fetcher configured")
		}
		return r.http.Fetch(ctx, source)
	default:
		if r.file == nil {
			return Payload{}, fmt.Errorf("no file fetcher configured")
		}
		return r.file.Fetch(ctx, source)
	}
}
