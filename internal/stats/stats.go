// Package stats reduces a numeric series to min, max, mean and population
// standard deviation.
//
// The default OnePass strategy accumulates sum and sum of squares in a
// single scan and derives variance as sumSq/N - mean². It is kept as the
// default for parity with the historical reports even though it loses
// precision for large or tightly clustered values. TwoPass and Welford
// produce the same result shape with better numerical behaviour.
package stats

import (
	"fmt"
	"math"
	"strings"

	"cloudpico-analyzer/internal/modules/weather/types"
)

type Strategy string

const (
	OnePass Strategy = "onepass"
	TwoPass Strategy = "twopass"
	Welford Strategy = "welford"
)

var strategies = []Strategy{OnePass, TwoPass, Welford}

// ParseStrategy accepts a strategy name case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	name := Strategy(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range strategies {
		if name == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown variance strategy %q (allowed: onepass, twopass, welford)", s)
}

func (s Strategy) String() string { return string(s) }

// Compute summarises values with the one-pass strategy.
func Compute(values []float64) types.Statistics {
	return OnePass.Compute(values)
}

// Compute summarises values. An empty series yields all-zero statistics.
// An unknown strategy falls back to OnePass.
func (s Strategy) Compute(values []float64) types.Statistics {
	if len(values) == 0 {
		return types.Statistics{}
	}

	lo, hi := bounds(values)
	var mean, variance float64
	switch s {
	case TwoPass:
		mean, variance = twoPass(values)
	case Welford:
		w := NewAccumulator()
		for _, v := range values {
			w.Update(v)
		}
		mean, variance = w.Mean(), w.Variance()
	default:
		mean, variance = onePass(values)
	}

	return types.Statistics{
		Min:    lo,
		Max:    hi,
		Mean:   mean,
		StdDev: math.Sqrt(clamp(variance)),
	}
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func onePass(values []float64) (mean, variance float64) {
	var sum, sumSq float64
	for _, v := range values {
		sum += v
		sumSq += v * v
	}
	n := float64(len(values))
	mean = sum / n
	return mean, sumSq/n - mean*mean
}

func twoPass(values []float64) (mean, variance float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	n := float64(len(values))
	mean = sum / n

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return mean, ss / n
}

// clamp guards the square root against a tiny negative variance left by
// cancellation in the one-pass formula.
func clamp(variance float64) float64 {
	if variance < 0 {
		return 0
	}
	return variance
}
