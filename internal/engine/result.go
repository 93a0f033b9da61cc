package engine

import "image"

// Provenance reports where a successful result's bytes came from.
type Provenance int

const (
	// Network means the bytes were fetched from the source this attempt.
	Network Provenance = iota
	// LocalFile means the bytes were read off the local filesystem.
	LocalFile
	// DiskCache means the bytes were served from the on-disk cache.
	DiskCache
	// MemoryCache means the decoded image was served from memory.
	MemoryCache
)

func (p Provenance) String() string {
	switch p {
	case Network:
		return "network"
	case LocalFile:
		return "file"
	case DiskCache:
		return "disk"
	case MemoryCache:
		return "memory"
	default:
		return "unknown"
	}
}

// Result is the outcome of one completed load attempt: either Success or
// Failure. It is produced once per attempt and never mutated.
type Result interface {
	result()
}

// Success carries the decoded image and its provenance.
type Success struct {
	Image      image.Image
	Provenance Provenance
}

func (Success) result() {}

// Failure carries the load error and, when decoding got partway, the
// partial image.
type Failure struct {
	Partial image.Image
	Err     error
}

func (Failure) result() {}
