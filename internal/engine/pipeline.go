package engine

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/llehouerou/glance/internal/fetch"
	"github.com/llehouerou/glance/internal/memcache"
)

// Pipeline is the default engine: fetch, decode, resize, cache.
type Pipeline struct {
	fetchers *fetch.Registry
	mem      *memcache.Cache
	log      zerolog.Logger
}

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	Fetchers *fetch.Registry
	Memory   *memcache.Cache // nil disables the memory tier
	Log      zerolog.Logger
}

// NewPipeline creates the default engine.
func NewPipeline(opts PipelineOptions) *Pipeline {
	return &Pipeline{
		fetchers: opts.Fetchers,
		mem:      opts.Memory,
		log:      opts.Log,
	}
}

// Verify Pipeline implements Engine at compile time.
var _ Engine = (*Pipeline)(nil)

// Execute implements Engine. Failures come back as Failure values; the
// only way ctx cancellation surfaces is through the Failure's error, and
// the loader drops those silently.
func (p *Pipeline) Execute(ctx context.Context, req Request) Result {
	key := req.Key()

	if req.Policy == CacheEnabled {
		if img, ok := p.mem.Get(key); ok {
			p.log.Debug().Str("key", key).Msg("memory cache hit")
			return Success{Image: img, Provenance: MemoryCache}
		}
	}

	data := req.Data
	provenance := MemoryCache // raw bytes were already in memory
	if len(data) == 0 {
		payload, err := p.fetchers.Fetch(ctx, req.Source)
		if err != nil {
			p.log.Debug().Err(err).Str("source", req.Source).Msg("fetch failed")
			return Failure{Err: err}
		}
		data = payload.Data
		switch {
		case payload.Local:
			provenance = LocalFile
		case payload.FromDisk:
			provenance = DiskCache
		default:
			provenance = Network
		}
	}

	if err := ctx.Err(); err != nil {
		return Failure{Err: err}
	}

	img, format, err := decode(data)
	if err != nil {
		return Failure{Err: err}
	}

	if req.HasTarget() {
		img = fit(img, req.Target)
	}

	if req.Policy != CacheDisabled {
		p.mem.Add(key, img)
	}

	p.log.Debug().
		Str("source", req.Source).
		Str("format", format).
		Stringer("provenance", provenance).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("image loaded")

	return Success{Image: img, Provenance: provenance}
}

// fit downscales img to fit within target, preserving aspect ratio.
// Images already within bounds are left alone.
func fit(img image.Image, target Size) image.Image {
	b := img.Bounds()
	if b.Dx() <= target.Width && b.Dy() <= target.Height {
		return img
	}
	return imaging.Fit(img, target.Width, target.Height, imaging.Lanczos)
}
