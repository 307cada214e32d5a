package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ReadFrVector reads n scalar field elements stored as bare fixed-width
// big-endian records. Non-canonical encodings are rejected.
func ReadFrVector(r io.Reader, n int) ([]fr.Element, error) {
	out := make([]fr.Element, n)
	var buf [fr.Bytes]byte
	for i := range out {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("transcript: reading field element %d: %w", i, err)
		}
		if err := out[i].SetBytesCanonical(buf[:]); err != nil {
			return nil, fmt.Errorf("transcript: field element %d: %w", i, err)
		}
	}
	return out, nil
}

// WriteFrVector writes scalars as bare fixed-width big-endian records.
func WriteFrVector(w io.Writer, v []fr.Element) error {
	for i := range v {
		b := v[i].Bytes()
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// Prepare writes the post-audit artifacts consumed by downstream tooling:
//
//	generator_prep.dat	degree+1 scalars of the generator polynomial
//	g1_x_prep.dat		degree+1 G1 points, the group generator prepended
//				as element zero ahead of [τ¹]₁ … [τᵈ]₁
//
// Both files are bare fixed-width records, no header, no length prefix.
// Prepare reshapes already-verified data; it performs no cryptographic
// checks of its own.
func Prepare(dir string, degree int, generator []fr.Element, g1x []bn254.G1Affine) error {
	if len(generator) != degree+1 {
		return fmt.Errorf("transcript: generator polynomial has %d coefficients, need %d", len(generator), degree+1)
	}
	if len(g1x) < degree {
		return fmt.Errorf("transcript: %d G1 points, need %d", len(g1x), degree)
	}

	genFile, err := os.Create(filepath.Join(dir, "generator_prep.dat"))
	if err != nil {
		return err
	}
	defer genFile.Close()
	gw := bufio.NewWriter(genFile)
	if err := WriteFrVector(gw, generator); err != nil {
		return err
	}
	if err := gw.Flush(); err != nil {
		return err
	}

	g1File, err := os.Create(filepath.Join(dir, "g1_x_prep.dat"))
	if err != nil {
		return err
	}
	defer g1File.Close()
	pw := bufio.NewWriter(g1File)

	_, _, g1, _ := bn254.Generators()
	b := g1.RawBytes()
	if _, err := pw.Write(b[:]); err != nil {
		return err
	}
	for i := 0; i < degree; i++ {
		b := g1x[i].RawBytes()
		if _, err := pw.Write(b[:]); err != nil {
			return err
		}
	}
	return pw.Flush()
}
