// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package pwhash

import (
	"context"
	"time"
)

// AppropriateCost returns the lowest cost above startCost whose bcrypt hash
// of ProbePassword takes at least target on this machine.
//
// A non-positive target means DefaultTimeTarget and an out-of-range startCost
// means DefaultCost. The search never probes above the hasher's maximum cost
// (MaxCost unless set with WithMaxCost); if the target is not met by then,
// the maximum is returned. A start cost at or above the maximum is returned
// unchanged without probing, so the result is never below the start cost.
//
// Each probe blocks for the full hash. The context is checked between probes,
// not during one.
func (h *Hasher) AppropriateCost(ctx context.Context, target time.Duration, startCost int) (int, error) {
	if target <= 0 {
		target = DefaultTimeTarget
	}
	cost := normalizeCost(startCost)
	for cost < h.maxCost {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		cost++
		elapsed, err := h.probe(cost)
		if err != nil {
			return 0, err
		}
		h.logger.Printf("calibrate: cost %2d: %v\n", cost, elapsed)
		if elapsed >= target {
			return cost, nil
		}
	}
	h.logger.Printf("calibrate: stopped at cost %d (maximum %d) before %v\n", cost, h.maxCost, target)
	return cost, nil
}

// Calibrate runs AppropriateCost with the hasher's time target, starting
// from its configured cost.
func (h *Hasher) Calibrate(ctx context.Context) (int, error) {
	return h.AppropriateCost(ctx, h.timeTarget, h.cost)
}

// timeProbe measures one bcrypt hash of ProbePassword at cost.
func (h *Hasher) timeProbe(cost int) (time.Duration, error) {
	started := time.Now()
	if _, err := h.Hash(ProbePassword, AlgorithmBcrypt, cost); err != nil {
		return 0, err
	}
	return time.Since(started), nil
}
