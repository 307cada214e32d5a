package srsaudit

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameRatio(t *testing.T) {
	var s fr.Element
	_, err := s.SetRandom()
	require.NoError(t, err)
	var bi big.Int
	s.BigInt(&bi)

	var sG1 bn254.G1Affine
	var sG2 bn254.G2Affine
	sG1.ScalarMultiplicationBase(&bi)
	sG2.ScalarMultiplicationBase(&bi)

	// e(s·g₁, g₂) == e(g₁, s·g₂)
	ok, err := SameRatio(sG1, g1gen, g2gen, sG2)
	require.NoError(t, err)
	assert.True(t, ok)
}

// any transposed operand must flip the verdict, not silently pass
func TestSameRatioTransposedOperands(t *testing.T) {
	var s fr.Element
	s.SetUint64(1 << 20)
	var bi big.Int
	s.BigInt(&bi)

	var sG1 bn254.G1Affine
	var sG2 bn254.G2Affine
	sG1.ScalarMultiplicationBase(&bi)
	sG2.ScalarMultiplicationBase(&bi)

	// G1 operands swapped: e(g₁, g₂) vs e(s·g₁, s·g₂)
	ok, err := SameRatio(g1gen, sG1, g2gen, sG2)
	require.NoError(t, err)
	assert.False(t, ok)

	// G2 operands swapped
	ok, err = SameRatio(sG1, g1gen, sG2, g2gen)
	require.NoError(t, err)
	assert.False(t, ok)

	// same G1 operand supplied twice, the transposition class the named
	// parameters are meant to surface
	ok, err = SameRatio(sG1, sG1, g2gen, sG2)
	require.NoError(t, err)
	assert.False(t, ok)
}
