// Package engine defines image load requests, results and the engine
// contract, plus the default fetch/decode/resize pipeline.
package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Unbounded marks a size axis with no layout constraint.
const Unbounded = -1

// Size is a width/height pair in pixels. Either axis may be Unbounded.
type Size struct {
	Width  int
	Height int
}

// Bounded returns true if both axes carry a concrete constraint.
func (s Size) Bounded() bool {
	return s.Width != Unbounded && s.Height != Unbounded
}

// Positive returns true if both axes are greater than zero.
func (s Size) Positive() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// CachePolicy controls cache participation for a single request.
type CachePolicy int

const (
	// CacheEnabled reads and writes both cache tiers.
	CacheEnabled CachePolicy = iota
	// CacheBypass skips cache reads but still writes results.
	CacheBypass
	// CacheDisabled skips the caches entirely.
	CacheDisabled
)

// Request describes one image to load. Requests are value types: deriving
// a sized variant copies, it never mutates the original.
type Request struct {
	// Source is a file path or an http(s) URL. Empty when Data is set.
	Source string

	// Data holds raw encoded image bytes for in-memory sources.
	Data []byte

	// Target is the explicit decode size. The zero value means the
	// request carries no size of its own and layout hints may apply.
	Target Size

	Policy CachePolicy
}

// NewRequest returns a request for the given source locator.
func NewRequest(source string) Request {
	return Request{Source: source}
}

// NewDataRequest returns a request for raw encoded image bytes.
func NewDataRequest(data []byte) Request {
	return Request{Data: data}
}

// HasTarget returns true if the request carries an explicit target size.
func (r Request) HasTarget() bool {
	return r.Target.Positive()
}

// WithTarget derives a copy of the request with an explicit target size.
func (r Request) WithTarget(size Size) Request {
	r.Target = size
	return r
}

// WithPolicy derives a copy of the request with the given cache policy.
func (r Request) WithPolicy(p CachePolicy) Request {
	r.Policy = p
	return r
}

// SameSource returns true if both requests identify the same underlying
// source, ignoring target size and policy. Session identity is keyed on
// this: a size change re-requests within a session, a source change
// starts a new one.
func (r Request) SameSource(other Request) bool {
	if r.Source != "" || other.Source != "" {
		return r.Source == other.Source
	}
	return string(r.Data) == string(other.Data)
}

// Key returns a stable cache key covering source identity and target size.
func (r Request) Key() string {
	var src string
	if r.Source != "" {
		src = r.Source
	} else {
		sum := sha256.Sum256(r.Data)
		src = "data:" + hex.EncodeToString(sum[:8])
	}
	data := fmt.Sprintf("%s:%d:%d", src, r.Target.Width, r.Target.Height)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// Derive combines a layout size hint with a base request and returns the
// request to execute. The second return value is false when the hint is
// degenerate and no load should be issued at all.
//
// Rules, in order:
//  1. A base request with an explicit target size ignores the hint.
//  2. A hint with an Unbounded axis leaves the base unconstrained.
//  3. A genuine nonzero hint becomes the derived target size.
//  4. Anything else (nothing measured yet) is degenerate.
func Derive(base Request, hint Size) (Request, bool) {
	if base.HasTarget() {
		return base, true
	}
	if !hint.Bounded() {
		return base, true
	}
	if hint.Positive() {
		return base.WithTarget(hint), true
	}
	return Request{}, false
}
