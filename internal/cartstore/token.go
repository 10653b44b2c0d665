package cartstore

import (
	"sync"

	"github.com/google/uuid"
)

// PushTokenGenerator generates unique tokens identifying individual push
// attempts, for log correlation between client and service.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type PushTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 push tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, so tokens sort
// by push time - useful when correlating client logs against the service's.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined push tokens for testing, enabling
// deterministic traces in the scenario harness.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
//
// Panics when all tokens are consumed - fail-fast for test
// misconfiguration (the test pushed more often than it expected to).
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("FixedGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
