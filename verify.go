package srsaudit

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Check names one of the five independent sub-checks of a transcript audit.
type Check uint8

const (
	// CheckTauG1: TauG1 is a power sequence anchored by TauG2[0].
	CheckTauG1 Check = iota
	// CheckAlphaTauG1: AlphaTauG1 is a power sequence anchored by TauG2[0].
	CheckAlphaTauG1
	// CheckTauG2: TauG2 is a power sequence anchored by TauG1[0].
	CheckTauG2
	// CheckAlphaTauG2: AlphaTauG2 is a power sequence anchored by TauG1[0].
	CheckAlphaTauG2
	// CheckAlphaShift: the α shift is the same in both groups,
	// e(TauG1[0], AlphaTauG2[0]) == e(AlphaTauG1[0], TauG2[0]).
	CheckAlphaShift

	numChecks
)

func (c Check) String() string {
	switch c {
	case CheckTauG1:
		return "powers of τ in G₁"
	case CheckAlphaTauG1:
		return "powers of ατ in G₁"
	case CheckTauG2:
		return "powers of τ in G₂"
	case CheckAlphaTauG2:
		return "powers of ατ in G₂"
	case CheckAlphaShift:
		return "α consistency across G₁ and G₂"
	default:
		return "unknown check"
	}
}

// Report collects the outcome of every sub-check of a transcript audit.
// All sub-checks always run; a failed one never masks the others.
type Report struct {
	outcomes [numChecks]bool
}

// Passed reports whether the named sub-check held.
func (r *Report) Passed(c Check) bool {
	return r.outcomes[c]
}

// Failed returns the sub-checks that did not hold, in declaration order.
func (r *Report) Failed() []Check {
	var failed []Check
	for c := Check(0); c < numChecks; c++ {
		if !r.outcomes[c] {
			failed = append(failed, c)
		}
	}
	return failed
}

// Ok reports whether every sub-check held.
func (r *Report) Ok() bool {
	for c := Check(0); c < numChecks; c++ {
		if !r.outcomes[c] {
			return false
		}
	}
	return true
}

// VerifyTranscript audits a full SRS transcript.
//
// Five independent checks run concurrently: each of the four sequences is
// validated as consecutive powers anchored by the first τ element of the
// other group, and the α shift is checked to be identical in G₁ and G₂.
// The Report names the outcome of each.
//
// A non-nil error means the audit could not run (degenerate degree, short
// sequence, arithmetic failure); it is never returned for a transcript that
// merely fails its checks.
func (v *Verifier) VerifyTranscript(t *Transcript) (*Report, error) {
	if t.Degree < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrDegenerateDegree, t.Degree)
	}
	for _, s := range []struct {
		name string
		n    int
	}{
		{"TauG1", len(t.TauG1)},
		{"AlphaTauG1", len(t.AlphaTauG1)},
		{"TauG2", len(t.TauG2)},
		{"AlphaTauG2", len(t.AlphaTauG2)},
	} {
		if s.n < t.Degree {
			return nil, fmt.Errorf("%w: %s has %d elements, need %d", ErrInsufficientData, s.name, s.n, t.Degree)
		}
	}

	// each goroutine writes its own report slot
	var report Report
	var g errgroup.Group

	g.Go(func() error {
		ok, err := v.VerifyPowersG1(t.TauG1, t.TauG2[0], t.Degree)
		report.outcomes[CheckTauG1] = ok
		return err
	})
	g.Go(func() error {
		ok, err := v.VerifyPowersG1(t.AlphaTauG1, t.TauG2[0], t.Degree)
		report.outcomes[CheckAlphaTauG1] = ok
		return err
	})
	g.Go(func() error {
		ok, err := v.VerifyPowersG2(t.TauG2, t.TauG1[0], t.Degree)
		report.outcomes[CheckTauG2] = ok
		return err
	})
	g.Go(func() error {
		ok, err := v.VerifyPowersG2(t.AlphaTauG2, t.TauG1[0], t.Degree)
		report.outcomes[CheckAlphaTauG2] = ok
		return err
	})
	g.Go(func() error {
		// e([τ]₁, [ατ]₂) == e([ατ]₁, [τ]₂)
		ok, err := SameRatio(t.TauG1[0], t.AlphaTauG1[0], t.AlphaTauG2[0], t.TauG2[0])
		report.outcomes[CheckAlphaShift] = ok
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for c := Check(0); c < numChecks; c++ {
		v.log.Debug().Stringer("check", c).Bool("ok", report.outcomes[c]).Msg("sub-check done")
	}
	if !report.Ok() {
		v.log.Warn().Int("failed", len(report.Failed())).Msg("transcript rejected")
	}
	return &report, nil
}
