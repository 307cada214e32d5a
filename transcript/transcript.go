// Package transcript reads and writes ceremony transcript files.
//
// A transcript file is a fixed-width binary record sequence with the
// following structure:
//
//	byte index	description
//	0-3		format version
//	4-7		polynomial degree
//	8-11		number of points per G1 section
//	12-15		number of points per G2 section
//	16-19		reserved, zero
//
// followed by the four point sections (TauG1, AlphaTauG1 in uncompressed G1
// encoding, then TauG2, AlphaTauG2 in uncompressed G2 encoding) and a
// BLAKE2b-512 checksum of all preceding bytes. All integers are big-endian.
package transcript

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"golang.org/x/crypto/blake2b"

	srsaudit "github.com/consensys/srs-audit"
	"github.com/consensys/srs-audit/internal/parallel"
)

// FormatVersion is the transcript format this package reads and writes.
const FormatVersion = 1

const (
	headerSize   = 20
	checksumSize = blake2b.Size
	g1PointSize  = bn254.SizeOfG1AffineUncompressed
	g2PointSize  = bn254.SizeOfG2AffineUncompressed

	// a section above this many points is suspicious
	maxPoints = 1 << 28
)

var (
	ErrBadHeader    = errors.New("transcript: malformed header")
	ErrTruncated    = errors.New("transcript: truncated data")
	ErrChecksum     = errors.New("transcript: checksum mismatch")
	ErrInvalidPoint = errors.New("transcript: invalid point")
)

type header struct {
	Version     uint32
	Degree      uint32
	NumG1Points uint32
	NumG2Points uint32
}

func parseHeader(data []byte) (header, error) {
	if len(data) < headerSize {
		return header{}, ErrTruncated
	}
	h := header{
		Version:     binary.BigEndian.Uint32(data[:4]),
		Degree:      binary.BigEndian.Uint32(data[4:8]),
		NumG1Points: binary.BigEndian.Uint32(data[8:12]),
		NumG2Points: binary.BigEndian.Uint32(data[12:16]),
	}
	if h.Version != FormatVersion {
		return header{}, fmt.Errorf("%w: unsupported version %d", ErrBadHeader, h.Version)
	}
	if h.NumG1Points > maxPoints || h.NumG2Points > maxPoints {
		return header{}, fmt.Errorf("%w: too many points, that's suspicious", ErrBadHeader)
	}
	if binary.BigEndian.Uint32(data[16:20]) != 0 {
		return header{}, fmt.Errorf("%w: reserved field not zero", ErrBadHeader)
	}
	return h, nil
}

// ReadTranscript parses and validates a transcript file. Every point is
// checked for curve and subgroup membership; a malformed point is a hard
// error, never a failed audit.
func ReadTranscript(r io.Reader) (*srsaudit.Transcript, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("transcript: %w", err)
	}

	h, err := parseHeader(b)
	if err != nil {
		return nil, err
	}

	nG1, nG2 := int(h.NumG1Points), int(h.NumG2Points)
	total := headerSize + 2*nG1*g1PointSize + 2*nG2*g2PointSize + checksumSize
	if len(b) < total {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrTruncated, len(b), total)
	}
	if len(b) > total {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrBadHeader, len(b)-total)
	}

	checksum := blake2b.Sum512(b[:total-checksumSize])
	if !bytes.Equal(b[total-checksumSize:], checksum[:]) {
		return nil, ErrChecksum
	}

	t := &srsaudit.Transcript{
		TauG1:      make([]bn254.G1Affine, nG1),
		AlphaTauG1: make([]bn254.G1Affine, nG1),
		TauG2:      make([]bn254.G2Affine, nG2),
		AlphaTauG2: make([]bn254.G2Affine, nG2),
		Degree:     int(h.Degree),
	}

	offset := headerSize
	if err := readG1Points(b[offset:], t.TauG1); err != nil {
		return nil, err
	}
	offset += nG1 * g1PointSize
	if err := readG1Points(b[offset:], t.AlphaTauG1); err != nil {
		return nil, err
	}
	offset += nG1 * g1PointSize
	if err := readG2Points(b[offset:], t.TauG2); err != nil {
		return nil, err
	}
	offset += nG2 * g2PointSize
	if err := readG2Points(b[offset:], t.AlphaTauG2); err != nil {
		return nil, err
	}

	return t, nil
}

func readG1Points(data []byte, pts []bn254.G1Affine) error {
	var nbErrs uint64
	parallel.Execute(len(pts), func(start, end int) {
		for i := start; i < end; i++ {
			if _, err := pts[i].SetBytes(data[i*g1PointSize : (i+1)*g1PointSize]); err != nil {
				atomic.AddUint64(&nbErrs, 1)
				return
			}
		}
	})
	if nbErrs > 0 {
		return fmt.Errorf("%w: %d %s point(s) not on curve or in the correct subgroup",
			ErrInvalidPoint, nbErrs, srsaudit.KindG1)
	}
	return nil
}

func readG2Points(data []byte, pts []bn254.G2Affine) error {
	var nbErrs uint64
	parallel.Execute(len(pts), func(start, end int) {
		for i := start; i < end; i++ {
			if _, err := pts[i].SetBytes(data[i*g2PointSize : (i+1)*g2PointSize]); err != nil {
				atomic.AddUint64(&nbErrs, 1)
				return
			}
		}
	})
	if nbErrs > 0 {
		return fmt.Errorf("%w: %d %s point(s) not on curve or in the correct subgroup",
			ErrInvalidPoint, nbErrs, srsaudit.KindG2)
	}
	return nil
}

// WriteTranscript serializes a transcript, appending the BLAKE2b-512
// checksum the reader demands.
func WriteTranscript(w io.Writer, t *srsaudit.Transcript) error {
	if len(t.TauG1) != len(t.AlphaTauG1) || len(t.TauG2) != len(t.AlphaTauG2) {
		return fmt.Errorf("transcript: mismatched section lengths")
	}

	hasher, err := blake2b.New512(nil)
	if err != nil {
		return err
	}
	mw := io.MultiWriter(w, hasher)

	var hdr [headerSize]byte
	binary.BigEndian.PutUint32(hdr[:4], FormatVersion)
	binary.BigEndian.PutUint32(hdr[4:8], uint32(t.Degree))
	binary.BigEndian.PutUint32(hdr[8:12], uint32(len(t.TauG1)))
	binary.BigEndian.PutUint32(hdr[12:16], uint32(len(t.TauG2)))
	if _, err := mw.Write(hdr[:]); err != nil {
		return err
	}

	for i := range t.TauG1 {
		b := t.TauG1[i].RawBytes()
		if _, err := mw.Write(b[:]); err != nil {
			return err
		}
	}
	for i := range t.AlphaTauG1 {
		b := t.AlphaTauG1[i].RawBytes()
		if _, err := mw.Write(b[:]); err != nil {
			return err
		}
	}
	for i := range t.TauG2 {
		b := t.TauG2[i].RawBytes()
		if _, err := mw.Write(b[:]); err != nil {
			return err
		}
	}
	for i := range t.AlphaTauG2 {
		b := t.AlphaTauG2[i].RawBytes()
		if _, err := mw.Write(b[:]); err != nil {
			return err
		}
	}

	_, err = w.Write(hasher.Sum(nil))
	return err
}
