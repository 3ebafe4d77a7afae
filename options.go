// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package pwhash

import (
	"io"
	"log"
	"time"
)

type Option func(h *Hasher) error

// WithAlgorithm sets the algorithm used by HashDefault.
func WithAlgorithm(a Algorithm) Option {
	return func(h *Hasher) error {
		if !h.algorithms.contains(a) {
			return &ErrUnsupportedAlgorithm{Name: a.String()}
		}
		h.algorithm = a
		return nil
	}
}

// WithCost sets the cost used by HashDefault and NeedsRehash.
// Out-of-range values fall back to DefaultCost, the same as Hash.
func WithCost(cost int) Option {
	return func(h *Hasher) error {
		h.cost = normalizeCost(cost)
		return nil
	}
}

// WithTimeTarget sets the target used by Calibrate.
func WithTimeTarget(d time.Duration) Option {
	return func(h *Hasher) error {
		if d <= 0 {
			d = DefaultTimeTarget
		}
		h.timeTarget = d
		return nil
	}
}

// WithMaxCost sets the highest cost AppropriateCost will probe.
func WithMaxCost(cost int) Option {
	return func(h *Hasher) error {
		h.maxCost = max(MinCost, min(cost, MaxCost))
		return nil
	}
}

// WithLogger sets the logger for calibration progress.
// A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(h *Hasher) error {
		if l == nil {
			l = log.New(io.Discard, "", 0)
		}
		h.logger = l
		return nil
	}
}
