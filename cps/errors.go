// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

import "fmt"

// Status reports the outcome of a LeastSquare solve, following the small
// enum-per-call convention common to sequential active-set solvers (one
// outcome value returned alongside the result, rather than a wrapped error).
type Status int

const (
	// Converged means the active-set loop found a point satisfying the
	// primal and dual optimality checks to tolerance.
	Converged Status = iota
	// MaxIterations means the loop exhausted its iteration budget
	// (2*n+10, per the driver's termination rule) without converging.
	MaxIterations
	// NumericalFailure means a rank-deficient or otherwise ill-posed
	// reduced system was encountered during the equality phase.
	NumericalFailure
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "Converged"
	case MaxIterations:
		return "MaxIterations"
	case NumericalFailure:
		return "NumericalFailure"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// errorKind distinguishes the constructor/validation-time error conditions
// from the per-iteration Status values above: setup mistakes are reported
// once, at construction, while per-call solve outcomes go through Status.
type errorKind int

const (
	kindDimensionMismatch errorKind = iota
	kindRankDeficient
	kindInfeasible
)

// Error is returned by constructors and setup helpers when arguments are
// malformed or mutually inconsistent. It is never returned by the solve
// loop itself, which reports via Status instead.
type Error struct {
	kind errorKind
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newError(kind errorKind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// DimensionMismatch reports a size mismatch between the arguments of a call,
// e.g. ApplyJLeft given a matrix with the wrong number of rows.
func DimensionMismatch(format string, args ...interface{}) *Error {
	return newError(kindDimensionMismatch, format, args...)
}

// RankDeficient reports that a reduced system built during QR assembly was
// singular beyond what the ε_zero policy tolerates.
func RankDeficient(format string, args ...interface{}) *Error {
	return newError(kindRankDeficient, format, args...)
}

// Infeasible reports that the supplied bounds admit no feasible point
// (e.g. l[i] > u[i], or [w_lo, w_hi] disjoint from [sum(l), sum(u)]).
func Infeasible(format string, args ...interface{}) *Error {
	return newError(kindInfeasible, format, args...)
}

// IsDimensionMismatch reports whether err was produced by DimensionMismatch.
func IsDimensionMismatch(err error) bool { return isKind(err, kindDimensionMismatch) }

// IsRankDeficient reports whether err was produced by RankDeficient.
func IsRankDeficient(err error) bool { return isKind(err, kindRankDeficient) }

// IsInfeasible reports whether err was produced by Infeasible.
func IsInfeasible(err error) bool { return isKind(err, kindInfeasible) }

func isKind(err error, kind errorKind) bool {
	e, ok := err.(*Error)
	return ok && e.kind == kind
}
