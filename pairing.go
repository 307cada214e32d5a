package srsaudit

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// SameRatio reports whether e(a1, a2) == e(b1, b2), i.e. that the discrete-log
// ratio a1/b1 in G₁ equals the ratio a2/b2 in G₂, without revealing it.
//
// The four operands are named so a transposition is visible at the call site;
// the check is evaluated as one batched pairing product e(a1, -a2)·e(b1, b2)
// compared against the identity of GT.
func SameRatio(a1, b1 bn254.G1Affine, a2, b2 bn254.G2Affine) (bool, error) {
	var na2 bn254.G2Affine
	na2.Neg(&a2)
	ok, err := bn254.PairingCheck(
		[]bn254.G1Affine{a1, b1},
		[]bn254.G2Affine{na2, b2})
	if err != nil {
		return false, fmt.Errorf("srs-audit: pairing check: %w", err)
	}
	return ok, nil
}
