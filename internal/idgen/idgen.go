// Package idgen issues identifiers for newly created tasks.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns a new unique identifier on every call.
type Generator interface {
	Next() string
}

// Sequence issues sequential identifiers of the form <prefix>-<n>, starting at 1. A single instance is meant to
// be shared by every component creating records, so numbering is global to whoever owns it.
type Sequence struct {
	prefix string
	last   atomic.Uint64
}

// NewSequence instantiates a Sequence.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) Next() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.last.Add(1))
}

// UUID issues random (version 4) UUIDs.
type UUID struct{}

func (UUID) Next() string {
	return uuid.NewString()
}
