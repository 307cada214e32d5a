package srsaudit

import (
	"fmt"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// powersOf returns [z, z², …, zⁿ].
func powersOf(z fr.Element, n int) []fr.Element {
	w := make([]fr.Element, n)
	w[0] = z
	for i := 1; i < n; i++ {
		w[i].Mul(&w[i-1], &z)
	}
	return w
}

// combineG1 folds a claimed power sequence A into a verification key
//
//	L1 = Σ zⁱ⁺¹·A[i]   i = 0..n-2
//	L2 = Σ zⁱ⁺¹·A[i+1]
//
// using one challenge z. The two combinations share their weights over
// shifted windows, so an honest sequence satisfies L2 = τ·L1 and the pair is
// ready for a same-ratio check against [τ] in the other group.
func combineG1(A []bn254.G1Affine, z fr.Element) (L1, L2 bn254.G1Affine, err error) {
	nc := runtime.NumCPU()
	n := len(A)
	w := powersOf(z, n-1)

	var err2 error
	chDone := make(chan struct{})
	go func() {
		_, err2 = L2.MultiExp(A[1:], w, ecc.MultiExpConfig{NbTasks: nc / 2})
		close(chDone)
	}()
	_, err = L1.MultiExp(A[:n-1], w, ecc.MultiExpConfig{NbTasks: nc / 2})
	<-chDone
	if err == nil {
		err = err2
	}
	if err != nil {
		err = fmt.Errorf("srs-audit: G1 multiexp: %w", err)
	}
	return
}

// combineG2 is combineG1 for a G₂ sequence.
func combineG2(A []bn254.G2Affine, z fr.Element) (L1, L2 bn254.G2Affine, err error) {
	nc := runtime.NumCPU()
	n := len(A)
	w := powersOf(z, n-1)

	var err2 error
	chDone := make(chan struct{})
	go func() {
		_, err2 = L2.MultiExp(A[1:], w, ecc.MultiExpConfig{NbTasks: nc / 2})
		close(chDone)
	}()
	_, err = L1.MultiExp(A[:n-1], w, ecc.MultiExpConfig{NbTasks: nc / 2})
	<-chDone
	if err == nil {
		err = err2
	}
	if err != nil {
		err = fmt.Errorf("srs-audit: G2 multiexp: %w", err)
	}
	return
}

// VerifyPowersG1 checks that seq[:degree] is consistent with consecutive
// powers [τ¹]₁ … [τᵈ]₁ of the scalar anchored by comparator = [τ]₂.
//
// false means the pairing relation failed: the sequence is not honestly
// formed. A non-nil error means the check could not run at all (bad degree,
// short sequence, or an arithmetic failure) and says nothing about honesty.
func (v *Verifier) VerifyPowersG1(seq []bn254.G1Affine, comparator bn254.G2Affine, degree int) (bool, error) {
	if degree < 2 {
		return false, fmt.Errorf("%w: got %d", ErrDegenerateDegree, degree)
	}
	if len(seq) < degree {
		return false, fmt.Errorf("%w: %d G1 elements, need %d", ErrInsufficientData, len(seq), degree)
	}
	z, err := v.challenge()
	if err != nil {
		return false, err
	}
	l1, l2, err := combineG1(seq[:degree], z)
	if err != nil {
		return false, err
	}
	// e(L1, [τ]₂) == e(L2, g₂)  ⇔  L2 = τ·L1
	return SameRatio(l1, l2, comparator, g2gen)
}

// VerifyPowersG2 is the G₂ orientation: seq is claimed to be [τ¹]₂ … [τᵈ]₂,
// anchored by comparator = [τ]₁. The pairing fixes G₁ as its first operand,
// so here the comparator side leads.
func (v *Verifier) VerifyPowersG2(seq []bn254.G2Affine, comparator bn254.G1Affine, degree int) (bool, error) {
	if degree < 2 {
		return false, fmt.Errorf("%w: got %d", ErrDegenerateDegree, degree)
	}
	if len(seq) < degree {
		return false, fmt.Errorf("%w: %d G2 elements, need %d", ErrInsufficientData, len(seq), degree)
	}
	z, err := v.challenge()
	if err != nil {
		return false, err
	}
	l1, l2, err := combineG2(seq[:degree], z)
	if err != nil {
		return false, err
	}
	// e([τ]₁, L1) == e(g₁, L2)  ⇔  L2 = τ·L1
	return SameRatio(comparator, g1gen, l1, l2)
}
