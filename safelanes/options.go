// SPDX-License-Identifier: MIT

package safelanes

import (
	"math"

	"go.uber.org/zap"
)

// Default tunables.
const (
	DefaultAlpha            = 9.0
	DefaultLambda           = 2e10
	DefaultMinAngle         = 10.0 // degrees
	DefaultJumpConductivity = 0.001
	DefaultWorkers          = 1
)

// Options configures a Solver.
//
// Alpha            – conductivity gain of an activated edge: c ← c·(1+Alpha).
// Lambda           – regularization added to every score; only scores < 0 win.
// MinAngle         – flatness threshold in degrees for candidate edges.
// JumpConductivity – conductivity of virtual links between paired jump points.
// Workers          – goroutines used for right-hand-side solves (1 = sequential).
// MaxRounds        – upper bound on greedy rounds; 0 means unbounded.
type Options struct {
	Alpha            float64
	Lambda           float64
	MinAngle         float64
	JumpConductivity float64
	Workers          int
	MaxRounds        int

	Logger       *zap.Logger
	Metrics      *Metrics
	LinearSolver LinearSolver
}

// Option represents a functional option for configuring a Solver.
type Option func(*Options)

// DefaultOptions returns the documented defaults with a no-op logger,
// no metrics and the sparse Cholesky backend.
func DefaultOptions() Options {
	return Options{
		Alpha:            DefaultAlpha,
		Lambda:           DefaultLambda,
		MinAngle:         DefaultMinAngle,
		JumpConductivity: DefaultJumpConductivity,
		Workers:          DefaultWorkers,
		Logger:           zap.NewNop(),
	}
}

// WithAlpha sets the activation gain. Panics on negative or non-finite values.
func WithAlpha(alpha float64) Option {
	return func(o *Options) {
		if alpha < 0 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
			panic(ErrBadAlpha.Error())
		}
		o.Alpha = alpha
	}
}

// WithLambda sets the regularization added to every candidate score.
func WithLambda(lambda float64) Option {
	return func(o *Options) {
		o.Lambda = lambda
	}
}

// WithMinAngle sets the flatness threshold in degrees.
func WithMinAngle(deg float64) Option {
	return func(o *Options) {
		if deg < 0 || deg >= 90 || math.IsNaN(deg) {
			panic(ErrBadMinAngle.Error())
		}
		o.MinAngle = deg
	}
}

// WithJumpConductivity sets the conductivity of virtual jump links.
func WithJumpConductivity(c float64) Option {
	return func(o *Options) {
		if c <= 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			panic(ErrBadJumpConductivity.Error())
		}
		o.JumpConductivity = c
	}
}

// WithWorkers sets the number of goroutines solving right-hand sides.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic(ErrBadWorkers.Error())
		}
		o.Workers = n
	}
}

// WithMaxRounds bounds the number of greedy rounds; 0 removes the bound.
func WithMaxRounds(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(ErrBadMaxRounds.Error())
		}
		o.MaxRounds = n
	}
}

// WithLogger sets the structured logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics attaches prometheus collectors created by NewMetrics.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithLinearSolver replaces the factorization backend.
func WithLinearSolver(ls LinearSolver) Option {
	return func(o *Options) {
		o.LinearSolver = ls
	}
}
