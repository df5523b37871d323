// Package ids produces identifiers for new bills.
package ids

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Generator returns a new, statistically unique identifier per call.
type Generator interface {
	NewID() string
}

// UUIDGenerator draws random v4 UUIDs from crypto/rand and falls back to a
// math/rand derived string when the secure source fails.
type UUIDGenerator struct {
	// newUUID is swapped in tests to simulate an unavailable source.
	newUUID func() (uuid.UUID, error)
}

// New returns the default generator.
func New() *UUIDGenerator {
	return &UUIDGenerator{newUUID: uuid.NewRandom}
}

// NewID implements Generator.
func (g *UUIDGenerator) NewID() string {
	newUUID := g.newUUID
	if newUUID == nil {
		newUUID = uuid.NewRandom
	}
	id, err := newUUID()
	if err != nil {
		return fallbackID()
	}
	return id.String()
}

// fallbackID mixes the clock with two pseudo-random words. Collisions are
// possible in principle and tolerated.
func fallbackID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36) + "-" +
		strconv.FormatUint(rand.Uint64(), 36) +
		strconv.FormatUint(rand.Uint64(), 36)
}

// Sequence is a deterministic Generator for tests and fixtures.
type Sequence struct {
	Prefix string
	next   int
}

// NewID implements Generator.
func (s *Sequence) NewID() string {
	s.next++
	return s.Prefix + strconv.Itoa(s.next)
}
