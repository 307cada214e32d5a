package transcript

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	srsaudit "github.com/consensys/srs-audit"
)

func buildTestTranscript(t *testing.T, degree int) *srsaudit.Transcript {
	t.Helper()

	var s, a fr.Element
	s.SetUint64(42)
	a.SetUint64(97)

	tr := &srsaudit.Transcript{
		TauG1:      make([]bn254.G1Affine, degree),
		AlphaTauG1: make([]bn254.G1Affine, degree),
		TauG2:      make([]bn254.G2Affine, degree),
		AlphaTauG2: make([]bn254.G2Affine, degree),
		Degree:     degree,
	}
	power := s
	var scaled fr.Element
	var bi, sbi big.Int
	for i := 0; i < degree; i++ {
		scaled.Mul(&power, &a)
		power.BigInt(&bi)
		scaled.BigInt(&sbi)
		tr.TauG1[i].ScalarMultiplicationBase(&bi)
		tr.AlphaTauG1[i].ScalarMultiplicationBase(&sbi)
		tr.TauG2[i].ScalarMultiplicationBase(&bi)
		tr.AlphaTauG2[i].ScalarMultiplicationBase(&sbi)
		power.Mul(&power, &s)
	}
	return tr
}

func TestTranscriptRoundTrip(t *testing.T) {
	tr := buildTestTranscript(t, 5)

	var buf bytes.Buffer
	require.NoError(t, WriteTranscript(&buf, tr))

	got, err := ReadTranscript(&buf)
	require.NoError(t, err)

	assert.Equal(t, tr.Degree, got.Degree)
	require.Len(t, got.TauG1, 5)
	require.Len(t, got.AlphaTauG2, 5)
	for i := range tr.TauG1 {
		assert.True(t, tr.TauG1[i].Equal(&got.TauG1[i]), "TauG1[%d]", i)
		assert.True(t, tr.AlphaTauG1[i].Equal(&got.AlphaTauG1[i]), "AlphaTauG1[%d]", i)
		assert.True(t, tr.TauG2[i].Equal(&got.TauG2[i]), "TauG2[%d]", i)
		assert.True(t, tr.AlphaTauG2[i].Equal(&got.AlphaTauG2[i]), "AlphaTauG2[%d]", i)
	}
}

func TestReadThenVerify(t *testing.T) {
	tr := buildTestTranscript(t, 4)

	var buf bytes.Buffer
	require.NoError(t, WriteTranscript(&buf, tr))
	got, err := ReadTranscript(&buf)
	require.NoError(t, err)

	report, err := srsaudit.NewVerifier(nil).VerifyTranscript(got)
	require.NoError(t, err)
	assert.True(t, report.Ok())
}

func TestTranscriptChecksumMismatch(t *testing.T) {
	tr := buildTestTranscript(t, 3)

	var buf bytes.Buffer
	require.NoError(t, WriteTranscript(&buf, tr))
	b := buf.Bytes()
	b[len(b)-1] ^= 0xff

	_, err := ReadTranscript(bytes.NewReader(b))
	require.ErrorIs(t, err, ErrChecksum)
}

func TestTranscriptTruncated(t *testing.T) {
	tr := buildTestTranscript(t, 3)

	var buf bytes.Buffer
	require.NoError(t, WriteTranscript(&buf, tr))
	b := buf.Bytes()

	_, err := ReadTranscript(bytes.NewReader(b[:len(b)-10]))
	require.ErrorIs(t, err, ErrTruncated)

	_, err = ReadTranscript(bytes.NewReader(b[:headerSize-4]))
	require.ErrorIs(t, err, ErrTruncated)

	_, err = ReadTranscript(bytes.NewReader(append(b, 0x00)))
	require.ErrorIs(t, err, ErrBadHeader)
}

func TestTranscriptBadVersion(t *testing.T) {
	tr := buildTestTranscript(t, 3)

	var buf bytes.Buffer
	require.NoError(t, WriteTranscript(&buf, tr))
	b := buf.Bytes()
	b[3] = 0x07

	_, err := ReadTranscript(bytes.NewReader(b))
	require.ErrorIs(t, err, ErrBadHeader)
}

func TestTranscriptInvalidPoint(t *testing.T) {
	tr := buildTestTranscript(t, 3)

	// overwrite a point with coordinates that are not on the curve, then
	// recompute the checksum so only point validation can reject it
	var buf bytes.Buffer
	require.NoError(t, WriteTranscript(&buf, tr))
	b := buf.Bytes()
	for i := headerSize; i < headerSize+g1PointSize; i++ {
		b[i] = 0x01
	}
	body := b[:len(b)-checksumSize]

	var fixed bytes.Buffer
	fixed.Write(body)
	sum := blake2b.Sum512(body)
	fixed.Write(sum[:])

	_, err := ReadTranscript(&fixed)
	require.ErrorIs(t, err, ErrInvalidPoint)
}

func TestFrVectorRoundTrip(t *testing.T) {
	v := make([]fr.Element, 7)
	for i := range v {
		v[i].SetUint64(uint64(i) * 1234567891011)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFrVector(&buf, v))
	assert.Equal(t, 7*fr.Bytes, buf.Len())

	got, err := ReadFrVector(&buf, 7)
	require.NoError(t, err)
	for i := range v {
		assert.True(t, v[i].Equal(&got[i]), "element %d", i)
	}

	_, err = ReadFrVector(bytes.NewReader(buf.Bytes()), 1)
	require.Error(t, err)
}

func TestReadFrVectorNonCanonical(t *testing.T) {
	// q-1 is canonical, anything ≥ q is not; all-0xff is far above q
	b := bytes.Repeat([]byte{0xff}, fr.Bytes)
	_, err := ReadFrVector(bytes.NewReader(b), 1)
	require.Error(t, err)
}

func TestPrepare(t *testing.T) {
	const degree = 4
	tr := buildTestTranscript(t, degree)

	generator := make([]fr.Element, degree+1)
	for i := range generator {
		_, err := generator[i].SetRandom()
		require.NoError(t, err)
	}

	dir := t.TempDir()
	require.NoError(t, Prepare(dir, degree, generator, tr.TauG1))

	// generator polynomial: degree+1 bare scalar records
	genBytes, err := os.ReadFile(filepath.Join(dir, "generator_prep.dat"))
	require.NoError(t, err)
	require.Len(t, genBytes, (degree+1)*fr.Bytes)
	gotGen, err := ReadFrVector(bytes.NewReader(genBytes), degree+1)
	require.NoError(t, err)
	for i := range generator {
		assert.True(t, generator[i].Equal(&gotGen[i]))
	}

	// G1 dump: generator prepended as element zero
	g1Bytes, err := os.ReadFile(filepath.Join(dir, "g1_x_prep.dat"))
	require.NoError(t, err)
	require.Len(t, g1Bytes, (degree+1)*g1PointSize)

	var first bn254.G1Affine
	_, err = first.SetBytes(g1Bytes[:g1PointSize])
	require.NoError(t, err)
	_, _, g1, _ := bn254.Generators()
	assert.True(t, first.Equal(&g1))

	var second bn254.G1Affine
	_, err = second.SetBytes(g1Bytes[g1PointSize : 2*g1PointSize])
	require.NoError(t, err)
	assert.True(t, second.Equal(&tr.TauG1[0]))
}

func TestPrepareBadInputs(t *testing.T) {
	tr := buildTestTranscript(t, 3)
	generator := make([]fr.Element, 3) // need degree+1 = 4

	err := Prepare(t.TempDir(), 3, generator, tr.TauG1)
	require.Error(t, err)

	generator = make([]fr.Element, 4)
	err = Prepare(t.TempDir(), 3, generator, tr.TauG1[:2])
	require.Error(t, err)
}
