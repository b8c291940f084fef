// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cps

import "github.com/go-numerics/cps/problemfile"

// Problem bundles the objective and constraints derived from the physical
// parameters of a centroidal-pendulum trajectory (time steps, admissible
// squared-frequency range, admissible boundary angular-velocity range),
// the convenience wiring original_source/c++/src/Problem.cpp builds on top
// of the raw LeastSquareObjective/LinearConstraints pair.
type Problem struct {
	Objective   *LeastSquareObjective
	Constraints *LinearConstraints
}

// NewFromPhysicalParameters derives a Problem from the time-step vector
// delta and the physical bounds: lambdaMin/lambdaMax bound the per-interval
// squared frequency lambda_i = x_i/delta_i, and omegaMin/omegaMax bound the
// boundary angular velocity whose square is the weighted sum of x. g and
// targetHeight additionally pin box bound 0 to delta[0]*g/targetHeight, the
// same fixed-point adjustment original_source/c++/src/Problem.cpp's
// constructor makes unconditionally via changeBounds(0, d, d) before any
// active-set solve ever sees the problem.
func NewFromPhysicalParameters(delta []float64, lambdaMin, lambdaMax, omegaMin, omegaMax, g, targetHeight float64) (*Problem, error) {
	obj, err := NewLeastSquareObjective(delta)
	if err != nil {
		return nil, err
	}
	n := len(delta)
	l := make([]float64, n)
	u := make([]float64, n)
	for i, d := range delta {
		l[i] = lambdaMin * d
		u[i] = lambdaMax * d
	}
	lc, err := NewLinearConstraints(l, u, omegaMin*omegaMin, omegaMax*omegaMax)
	if err != nil {
		return nil, err
	}
	d := delta[0] * g / targetHeight
	if err := lc.ChangeBounds(0, d, d); err != nil {
		return nil, err
	}
	return &Problem{Objective: obj, Constraints: lc}, nil
}

// NewFromRawProblem derives a Problem from a parsed fixture file's physical
// parameters, the same way original_source/c++/src/Problem.cpp's
// Problem(const RawProblem&) constructor derives lso_/lc_ from the fields
// RawProblem::read populates, including the g/target_height box-bound-0
// adjustment. The nonlinear boundedness constraint that constructor also
// builds (bc_) is out of scope here: this module's Non-goals exclude the
// nonlinear constraint evaluator, so InitZBar, InitZBarDeriv and Phi are
// read but not otherwise used.
func NewFromRawProblem(pb *problemfile.RawProblem) (*Problem, error) {
	return NewFromPhysicalParameters(pb.Delta, pb.LambdaMin, pb.LambdaMax, pb.InitOmegaMin, pb.InitOmegaMax, pb.G, pb.TargetHeight)
}

// Precompute eagerly builds the QR cache for every active-set mask. The
// shift is fixed at 0, matching the only shift a LeastSquare driver ever
// requests from Objective.QR during its equality phase, so a Problem built
// through this constructor actually hits the cache once warmed up.
func (p *Problem) Precompute() error {
	return p.Objective.Precompute(0)
}

// NewDriver preallocates a LeastSquare driver sized for this problem.
func (p *Problem) NewDriver() *LeastSquare {
	return NewLeastSquare(p.Objective.N())
}
