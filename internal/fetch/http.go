package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/glance/internal/diskcache"
)

const (
	// DefaultTimeout bounds one HTTP fetch end to end.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies glance to image servers.
	DefaultUserAgent = "glance/1.0"

	// maxBodySize caps response bodies to keep a hostile server from
	// exhausting memory.
	maxBodySize = 64 << 20 // 64 MiB
)

// HTTPFetcher retrieves images over HTTP. When a disk cache is attached,
// cached entries are served directly and revalidated with conditional
// requests when the origin supplied a validator.
type HTTPFetcher struct {
	client       *http.Client
	cache        *diskcache.Cache
	userAgent    string
	noRevalidate bool
	log          zerolog.Logger
}

// HTTPOptions configures an HTTPFetcher.
type HTTPOptions struct {
	Client    *http.Client // nil gets a client with DefaultTimeout
	Cache     *diskcache.Cache
	UserAgent string

	// SkipRevalidation serves cached entries as-is even when the origin
	// supplied a validator.
	SkipRevalidation bool

	Log zerolog.Logger
}

// NewHTTPFetcher creates an HTTP fetcher.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:       client,
		cache:        opts.Cache,
		userAgent:    ua,
		noRevalidate: opts.SkipRevalidation,
		log:          opts.Log,
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, source string) (Payload, error) {
	cached, entry, err := f.cache.Get(source)
	if err != nil {
		f.log.Warn().Err(err).Str("source", source).Msg("disk cache read failed")
	}

	// A cached entry without a validator is served as-is. With a
	// validator we ask the origin whether it still holds, unless
	// revalidation is turned off in the config.
	if cached != nil && (f.noRevalidate || (entry.ETag == "" && entry.LastModified == "")) {
		return Payload{Data: cached, FromDisk: true}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return Payload{}, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	if cached != nil {
		if entry.ETag != "" {
			req.Header.Set("If-None-Match", entry.ETag)
		}
		if entry.LastModified != "" {
			req.Header.Set("If-Modified-Since", entry.LastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// Network down but bytes on disk: stale beats nothing.
		if cached != nil {
			f.log.Debug().Str("source", source).Msg("revalidation failed, serving stale")
			return Payload{Data: cached, FromDisk: true}, nil
		}
		return Payload{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && cached != nil:
		f.cache.Touch(source)
		return Payload{Data: cached, FromDisk: true}, nil

	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return Payload{}, err
		}
		if len(data) == 0 {
			return Payload{}, fmt.Errorf("empty response from %s", source)
		}
		if err := f.cache.Put(source, data, resp.Header.Get("ETag"), resp.Header.Get("Last-Modified")); err != nil {
			f.log.Warn().Err(err).Str("source", source).Msg("disk cache write failed")
		}
		return Payload{Data: data}, nil

	default:
		return Payload{}, fmt.Errorf("fetch %s: unexpected status %s", source, resp.Status)
	}
}
