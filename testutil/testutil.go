package testutil

import (
	"math/rand"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/hupe1980/arraydb/codec"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Int16 returns a pseudo-random int16.
func (r *RNG) Int16() int16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int16(r.rand.Uint32())
}

// Float64 returns a pseudo-random float64 in [-1e6, 1e6).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (r.rand.Float64()*2 - 1) * 1e6
}

// NullFloat64 returns a null value about one time in four, otherwise a
// present Float64.
func (r *RNG) NullFloat64() codec.NullFloat64 {
	if r.Intn(4) == 0 {
		return codec.NullFloat64{}
	}
	return codec.Float(r.Float64())
}

// textAlphabet mixes 1, 2, 3 and 4 byte UTF-8 runes.
var textAlphabet = []rune("aZ0 ßéسж€中😀")

// Text returns a valid UTF-8 string of at most maxBytes bytes.
func (r *RNG) Text(maxBytes int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := r.rand.Intn(maxBytes + 1)
	var b strings.Builder
	for {
		c := textAlphabet[r.rand.Intn(len(textAlphabet))]
		if b.Len()+utf8.RuneLen(c) > target {
			return b.String()
		}
		b.WriteRune(c)
	}
}

// Shape returns n axis capacities, each in 1..maxCap.
func (r *RNG) Shape(n int, maxCap uint64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	axes := make([]uint64, n)
	for i := range axes {
		axes[i] = 1 + uint64(r.rand.Int63n(int64(maxCap)))
	}
	return axes
}

// Address returns a uniformly random valid address for axes.
func (r *RNG) Address(axes []uint64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	addr := make([]uint64, len(axes))
	for i, m := range axes {
		addr[i] = 1 + uint64(r.rand.Int63n(int64(m)))
	}
	return addr
}

// Prefixes returns up to n distinct valid prefixes (x_1..x_{N-1}) for axes.
// Fewer are returned when the prefix space is smaller than n.
func (r *RNG) Prefixes(axes []uint64, n int) [][]uint64 {
	if len(axes) < 2 {
		return nil
	}
	space := uint64(1)
	for _, m := range axes[:len(axes)-1] {
		space *= m
		if space >= uint64(n) {
			break
		}
	}
	n = int(min(space, uint64(n)))

	out := make([][]uint64, 0, n)
	for len(out) < n {
		p := r.Address(axes[:len(axes)-1])
		if !slices.ContainsFunc(out, func(q []uint64) bool { return slices.Equal(p, q) }) {
			out = append(out, p)
		}
	}
	return out
}
