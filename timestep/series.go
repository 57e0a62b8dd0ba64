// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timestep

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Series is an append-only sequence of Record, indexed from 0 (the
// initial state) through N (the last completed timestep). It supports
// O(1) lookup by index, O(1) two-record cumulative queries, and
// last-record replacement for one-shot rollback (§4.4 step 3).
type Series struct {
	records            []Record
	maxRoundingError   float64
}

// NewSeries returns a Series seeded with the initial (t=0) record.
func NewSeries(initial Record) *Series {
	return &Series{records: []Record{initial}}
}

// N is the active (last completed) timestep index.
func (s *Series) N() int {
	return len(s.records) - 1
}

// Append adds a new completed timestep record.
func (s *Series) Append(r Record) {
	s.records = append(s.records, r)
}

// ReplaceLast overwrites the most recently appended record, used for
// the one-shot cross-set rollback in §4.4 step 3. Panics if the series
// only holds the initial record (there is nothing to replace).
func (s *Series) ReplaceLast(r Record) {
	if len(s.records) < 2 {
		chk.Panic("timestep: ReplaceLast called on a series with no appended records")
	}
	s.records[len(s.records)-1] = r
}

// At returns the record at index n (0 == initial state).
func (s *Series) At(n int) (Record, error) {
	if n < 0 || n >= len(s.records) {
		return Record{}, chk.Err("timestep: index %d out of range [0,%d]", n, s.N())
	}
	return s.records[n], nil
}

// CumulativeHalfLength returns the half-length, at the end of timestep
// n, of a half-fracture nucleated at t=0.
func (s *Series) CumulativeHalfLength(n int) (float64, error) {
	r, err := s.At(n)
	if err != nil {
		return 0, err
	}
	return r.CumHalfLength, nil
}

// CumulativeHalfLengthBetween returns max(0, cumHL[n] - cumHL[m]),
// defined only for n >= m.
func (s *Series) CumulativeHalfLengthBetween(n, m int) (float64, error) {
	if n < m {
		return 0, chk.Err("timestep: CumulativeHalfLengthBetween requires n >= m; got n=%d m=%d", n, m)
	}
	hn, err := s.CumulativeHalfLength(n)
	if err != nil {
		return 0, err
	}
	hm, err := s.CumulativeHalfLength(m)
	if err != nil {
		return 0, err
	}
	return utl.Max(0, hn-hm), nil
}

// CumulativePhi returns the survival probability of a fracture
// nucleated at the end of timestep m, evaluated at timestep n.
func (s *Series) CumulativePhi(n, m int) (float64, error) {
	if n < m {
		return 1, nil
	}
	rm, err := s.At(m)
	if err != nil {
		return 0, err
	}
	if rm.CumPhi == 0 {
		return 0, nil
	}
	rn, err := s.At(n)
	if err != nil {
		return 0, err
	}
	return rn.CumPhi / rm.CumPhi, nil
}

// CumHGamma returns h_factor + record[n].CumGamma, where h_factor =
// ln(h/2) when b == 2, else (h/2)^(1/β) with β = (b-2)/2.
func (s *Series) CumHGamma(n int, h, b float64) (float64, error) {
	r, err := s.At(n)
	if err != nil {
		return 0, err
	}
	var hFactor float64
	if b == 2 {
		hFactor = math.Log(h / 2)
	} else {
		beta := (b - 2) / 2
		hFactor = math.Pow(h/2, 1/beta)
	}
	return hFactor + r.CumGamma, nil
}

// UpdateMaxDrivingStressRoundingError ratchets the stored rounding
// error to max(prev, |σ|·1e-12). The ratchet is monotone by
// construction (§8 property 6).
func (s *Series) UpdateMaxDrivingStressRoundingError(sigma float64) {
	e := math.Abs(sigma) * 1e-12
	s.maxRoundingError = utl.Max(s.maxRoundingError, e)
}

// MaxRoundingError returns the current maximum driving-stress rounding
// error accumulated so far.
func (s *Series) MaxRoundingError() float64 {
	return s.maxRoundingError
}

// Last returns the most recently appended record.
func (s *Series) Last() Record {
	return s.records[len(s.records)-1]
}
