// Package draw selects winners for prizes out of a participant pool. The
// algorithm itself is pure: all unpredictability comes from the injected
// randomness source, so a fixed seed reproduces the exact same pairing.
package draw

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
)

// Source yields uniformly distributed indices. Intn panics when n <= 0, same
// contract as math/rand.
type Source interface {
	Intn(n int) int
}

// seededSource is a deterministic SHA-256 counter stream: block i is
// sha256(seed || i), consumed 8 bytes at a time. Uniformity over [0, n) is
// obtained by rejection sampling rather than a bare modulo.
type seededSource struct {
	seed  []byte
	block [sha256.Size]byte
	ctr   uint64
	off   int
}

// NewSeededSource builds a deterministic Source from an externally supplied
// seed.
func NewSeededSource(seed []byte) Source {
	s := &seededSource{seed: append([]byte(nil), seed...)}
	s.refill()
	return s
}

// NewRandomSeed returns a fresh seed from the operating system's entropy pool.
func NewRandomSeed() ([]byte, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	return seed, nil
}

func (s *seededSource) refill() {
	h := sha256.New()
	h.Write(s.seed)
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], s.ctr)
	h.Write(ctr[:])
	h.Sum(s.block[:0])
	s.ctr++
	s.off = 0
}

func (s *seededSource) next64() uint64 {
	if s.off+8 > len(s.block) {
		s.refill()
	}
	v := binary.BigEndian.Uint64(s.block[s.off : s.off+8])
	s.off += 8
	return v
}

func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("draw: Intn called with non-positive n")
	}
	bound := uint64(n)
	// threshold = 2^64 mod bound. Accepting only v >= threshold leaves a span
	// whose length is an exact multiple of bound, so v % bound is unbiased.
	threshold := -bound % bound
	for {
		v := s.next64()
		if v >= threshold {
			return int(v % bound)
		}
	}
}
