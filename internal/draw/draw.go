// Package draw computes the random assignment for a gift exchange: a
// permutation of the participant set with no participant mapped to
// themselves.
package draw

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
)

// DefaultMaxAttempts bounds the rejection sampling loop. Roughly 1/e of all
// permutations are derangements, so hitting the cap means the random source
// is broken, not unlucky.
const DefaultMaxAttempts = 120

// ErrNoValidAssignment indicates every attempted permutation had a fixed
// point. Callers should surface this as a retryable failure; a fresh call
// draws fresh randomness.
var ErrNoValidAssignment = errors.New("no valid assignment found within attempt budget")

// ErrTooFewParticipants indicates the input set is too small to derange
// meaningfully. Two participants would force a swap, so the floor is three.
var ErrTooFewParticipants = errors.New("at least 3 participants are required")

// Generator produces derangements over sets of identifiers. It is pure
// apart from its random source and safe to construct per call.
type Generator[ID comparable] struct {
	rng         *rand.Rand
	maxAttempts int
}

// NewGenerator returns a Generator seeded from crypto/rand.
func NewGenerator[ID comparable](maxAttempts int) (*Generator[ID], error) {
	seed, err := newSeed()
	if err != nil {
		return nil, err
	}
	return NewSeededGenerator[ID](seed, maxAttempts), nil
}

// NewSeededGenerator returns a deterministic Generator. Production code must
// go through NewGenerator; seeding is for tests.
func NewSeededGenerator[ID comparable](seed int64, maxAttempts int) *Generator[ID] {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator[ID]{
		rng:         rand.New(rand.NewSource(seed)),
		maxAttempts: maxAttempts,
	}
}

// Generate maps each identifier to the identifier it drew. The result is a
// permutation of ids with no fixed points, found by shuffling and rejecting
// until no identifier pairs with itself.
func (g *Generator[ID]) Generate(ids []ID) (map[ID]ID, error) {
	if len(ids) < 3 {
		return nil, ErrTooFewParticipants
	}

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		shuffled := g.shuffle(ids)

		valid := true
		for i := range ids {
			if ids[i] == shuffled[i] {
				valid = false
				break
			}
		}
		if !valid {
			continue
		}

		assignments := make(map[ID]ID, len(ids))
		for i := range ids {
			assignments[ids[i]] = shuffled[i]
		}
		return assignments, nil
	}

	return nil, ErrNoValidAssignment
}

// shuffle returns a new slice with the items in Fisher-Yates order, leaving
// the input untouched.
func (g *Generator[ID]) shuffle(items []ID) []ID {
	shuffled := make([]ID, len(items))
	copy(shuffled, items)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := g.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}

func newSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
