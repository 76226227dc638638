package generic

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"strings"
)

// =============================================================================
// RAND - The single funnel for every random draw in the simulation
// =============================================================================

// Rand is the randomness the engine consumes. Production code passes a seeded
// *Stream; tests pass a FixedRand to force outcomes.
type Rand interface {
	// Float64 returns a value in [0,1).
	Float64() float64
	// Intn returns a value in [0,n).
	Intn(n int) int
}

// SeedFromString returns a 64-bit seed from an arbitrary string using SHA256.
func SeedFromString(s string) uint64 {
	h := sha256.Sum256([]byte(s))
	return binary.LittleEndian.Uint64(h[:8])
}

// SeedFromParts hashes the parts joined by '|'. Used for the variable cost
// noise key (year, month, category, locale).
func SeedFromParts(parts ...string) uint64 {
	return SeedFromString(strings.Join(parts, "|"))
}

// Derive returns a deterministic child seed from base and label (HMAC-SHA256).
func Derive(base uint64, label string) uint64 {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, base)
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(label))
	sum := m.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

// SplitMix64 is a small, fast PRNG with a stable output stream per seed.
type SplitMix64 struct{ state uint64 }

func NewSplitMix64(seed uint64) *SplitMix64 { return &SplitMix64{state: seed} }

func (s *SplitMix64) Next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Float64 returns a float in [0,1) built from the top 53 bits.
func (s *SplitMix64) Float64() float64 { return float64(s.Next()>>11) / (1 << 53) }

func (s *SplitMix64) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Next() % uint64(n))
}

// Stream is a labelled deterministic random stream.
type Stream struct {
	base uint64
	sm   *SplitMix64
}

func NewStream(seed uint64) *Stream { return &Stream{base: seed, sm: NewSplitMix64(seed)} }

func (s *Stream) Float64() float64 { return s.sm.Float64() }
func (s *Stream) Intn(n int) int   { return s.sm.Intn(n) }
func (s *Stream) Uint64() uint64   { return s.sm.Next() }

// Child creates a stable sub-stream derived from this stream's base seed.
func (s *Stream) Child(label string) *Stream { return NewStream(Derive(s.base, label)) }

// =============================================================================
// SEED STATE - Persisted so reloading a save replays the same draws
// =============================================================================

// SeedState is the persisted PRNG position of a game: a root seed plus a
// monotonically increasing draw counter. Every operation that needs
// randomness takes the next stream, so replaying a save reproduces outcomes.
type SeedState struct {
	Root    uint64 `json:"root"`
	Counter uint64 `json:"counter"`
}

// Next returns a fresh stream for label and advances the counter.
func (s *SeedState) Next(label string) *Stream {
	s.Counter++
	return NewStream(Derive(s.Root, label+"#"+strconv.FormatUint(s.Counter, 10)))
}

// =============================================================================
// FIXED RAND - Test double returning a scripted sequence
// =============================================================================

// FixedRand replays Floats and Ints in order, repeating the last value once
// exhausted. An empty sequence yields zero.
type FixedRand struct {
	Floats []float64
	Ints   []int
	fi, ii int
}

func (f *FixedRand) Float64() float64 {
	if len(f.Floats) == 0 {
		return 0
	}
	v := f.Floats[min(f.fi, len(f.Floats)-1)]
	f.fi++
	return v
}

func (f *FixedRand) Intn(n int) int {
	if len(f.Ints) == 0 || n <= 0 {
		return 0
	}
	v := f.Ints[min(f.ii, len(f.Ints)-1)]
	f.ii++
	return ClampInt(v, 0, n-1)
}
