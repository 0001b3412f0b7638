// Package id generates prefixed, k-sortable identifiers (ULIDs) used to
// correlate the provider calls belonging to one chat turn across log lines.
package id

import (
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TurnID identifies one chat turn end to end.
type TurnID string

func (id TurnID) String() string { return string(id) }

// TurnPrefix marks turn identifiers in logs.
const TurnPrefix = "turn"

// Generator produces ULIDs from a guarded entropy source.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator(rand.Reader)
	})
	return defaultGenerator
}

// NewGenerator creates a generator over the given entropy source. Tests pass
// a deterministic reader.
func NewGenerator(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return prefix + "_" + g.Generate().String()
}

// NewTurnID generates a turn identifier.
func NewTurnID() TurnID {
	return TurnID(Default().GenerateWithPrefix(TurnPrefix))
}

// Timestamp extracts the creation time from a prefixed or bare ULID string.
func Timestamp(id string) (time.Time, error) {
	if i := strings.IndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
