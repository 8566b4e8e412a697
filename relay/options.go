package relay

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Options contains configuration shared by the engine and the paginators built on it
type Options struct {
	// MaxPageSize caps first/last. Larger counts are clamped, not rejected.
	// Zero means no cap.
	MaxPageSize int `env:"RELAY_MAX_PAGE_SIZE" envDefault:"0"`

	// LargeRelationThreshold is the sequence length above which paginators log a warning,
	// since every relation is materialized in memory before it is sliced.
	// Zero disables the warning.
	LargeRelationThreshold int `env:"RELAY_LARGE_RELATION_THRESHOLD" envDefault:"10000"`
}

// DefaultOptions returns default options
func DefaultOptions() *Options {
	return &Options{
		MaxPageSize:            0,
		LargeRelationThreshold: 10000,
	}
}

// LoadOptions reads options from the environment, falling back to the defaults
func LoadOptions() (*Options, error) {
	opts := DefaultOptions()
	if err := env.Parse(opts); err != nil {
		return nil, fmt.Errorf("failed to load pagination options: %w", err)
	}
	if opts.MaxPageSize < 0 {
		return nil, fmt.Errorf("RELAY_MAX_PAGE_SIZE must not be negative, got %d", opts.MaxPageSize)
	}
	return opts, nil
}

// ValidatePageSize clamps a validated, non-negative count to MaxPageSize
func (o *Options) ValidatePageSize(size int) int {
	if o == nil {
		return size
	}
	// Only cap if MaxPageSize is set (> 0)
	if o.MaxPageSize > 0 && size > o.MaxPageSize {
		return o.MaxPageSize
	}
	return size
}

// IsLargeRelation reports whether a sequence of length n should be flagged to callers
func (o *Options) IsLargeRelation(n int) bool {
	if o == nil || o.LargeRelationThreshold <= 0 {
		return false
	}
	return n > o.LargeRelationThreshold
}
