// Package srsaudit validates a powers-of-tau structured reference string.
//
// A transcript claims that four sequences of bn254 points encode consecutive
// powers of a secret scalar τ (and of ατ for a secret shift α), in both G₁
// and G₂. The auditor certifies these claims with randomized-batch
// "same ratio" pairing checks, without ever learning τ or α.
//
// The transcript shape follows the AZTEC-style ceremonies:
//
//	TauG1[i]      = [τⁱ⁺¹]₁      i = 0..degree-1
//	AlphaTauG1[i] = [ατⁱ⁺¹]₁
//	TauG2[i]      = [τⁱ⁺¹]₂
//	AlphaTauG2[i] = [ατⁱ⁺¹]₂
package srsaudit

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/rs/zerolog"

	"github.com/consensys/srs-audit/logger"
)

// GroupKind distinguishes the two source groups of the pairing. The pairing
// fixes their roles: a KindG1 element is always the first operand of a
// pairing, a KindG2 element always the second.
type GroupKind uint8

const (
	KindG1 GroupKind = iota
	KindG2
)

func (k GroupKind) String() string {
	switch k {
	case KindG1:
		return "G1"
	case KindG2:
		return "G2"
	default:
		return "unknown"
	}
}

// Transcript is the SRS under audit: four power sequences sharing one degree.
// Sequences start at the first power; the zeroth power (the generator) is
// never part of a transcript.
type Transcript struct {
	TauG1      []bn254.G1Affine
	AlphaTauG1 []bn254.G1Affine
	TauG2      []bn254.G2Affine
	AlphaTauG2 []bn254.G2Affine
	Degree     int
}

// Options contains configuration options for a Verifier.
type Options struct {
	// RandomSource is the source of entropy for challenge sampling.
	RandomSource io.Reader
}

// DefaultOptions returns default options for a Verifier.
func DefaultOptions() *Options {
	return &Options{
		RandomSource: rand.Reader,
	}
}

// WithRandomSource sets a custom random source. Tests use a deterministic
// reader for reproducible negative cases; production keeps crypto/rand.
func (o *Options) WithRandomSource(source io.Reader) *Options {
	o.RandomSource = source
	return o
}

// Verifier runs same-ratio audits over one curve context. It is safe for
// concurrent use.
type Verifier struct {
	opts *Options

	// guards the random source; sub-checks sample challenges concurrently
	mu  sync.Mutex
	log zerolog.Logger
}

// NewVerifier returns a Verifier with the given options (nil for defaults).
func NewVerifier(opts *Options) *Verifier {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Verifier{
		opts: opts,
		log:  logger.Logger().With().Str("component", "srsaudit").Logger(),
	}
}

// challenge samples a fresh scalar from the verifier's random source.
// A zero draw is bumped to one: zero weights would void the batch and
// vacuously accept any sequence.
func (v *Verifier) challenge() (fr.Element, error) {
	var z fr.Element
	buf := make([]byte, fr.Bytes+16)

	v.mu.Lock()
	_, err := io.ReadFull(v.opts.RandomSource, buf)
	v.mu.Unlock()
	if err != nil {
		return z, fmt.Errorf("sampling challenge: %w", err)
	}

	z.SetBytes(buf)
	if z.IsZero() {
		z.SetOne()
	}
	return z, nil
}

var (
	g1gen bn254.G1Affine
	g2gen bn254.G2Affine
)

func init() {
	_, _, g1gen, g2gen = bn254.Generators()
}
