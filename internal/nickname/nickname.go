// Package nickname generates pseudonymous display names for anonymous posts.
package nickname

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var adjectives = []string{
	"迷える",
	"悩める",
	"恥ずかしがりの",
	"反省中の",
	"後悔の",
	"懺悔の",
	"悔いる",
	"内省的な",
	"思い出したくない",
	"黒歴史の",
}

var nouns = []string{
	"子羊",
	"旅人",
	"求道者",
	"悟り人",
	"修行僧",
	"巡礼者",
	"懺悔者",
	"反省人",
	"後悔人",
	"黒歴史持ち",
}

// Generator produces random nicknames of the form 迷える子羊#0123.
// Nicknames are not unique; collisions are acceptable and expected.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a generator seeded from the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a generator with a caller-provided source,
// used by tests for deterministic output.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Generate returns an adjective + noun + 4-digit tag nickname.
func (g *Generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	adj := adjectives[g.rng.Intn(len(adjectives))]
	noun := nouns[g.rng.Intn(len(nouns))]
	num := g.rng.Intn(9999) + 1

	return fmt.Sprintf("%s%s#%04d", adj, noun, num)
}
