// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package pwhash creates and verifies bcrypt password hashes and finds the
// bcrypt cost that meets a target hashing time on the current machine.
//
// Plaintext passwords are never logged or retained past the call that
// receives them.
package pwhash

import (
	"io"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinCost     = bcrypt.MinCost // 4
	MaxCost     = bcrypt.MaxCost // 31
	DefaultCost = 9

	DefaultTimeTarget = 200 * time.Millisecond

	// ProbePassword is the input hashed while calibrating.
	ProbePassword = "test"
)

// Hasher creates and verifies password hashes.
// It holds no mutable state after New returns and is safe for concurrent use.
type Hasher struct {
	algorithms algorithmSet
	algorithm  Algorithm
	cost       int
	timeTarget time.Duration
	maxCost    int
	logger     *log.Logger

	// probe times a single calibration hash; replaced in tests
	probe func(cost int) (time.Duration, error)
}

// New returns a Hasher after confirming that the platform can hash and
// verify a password.
func New(options ...Option) (*Hasher, error) {
	h := &Hasher{
		algorithms: supportedAlgorithms(),
		algorithm:  AlgorithmDefault,
		cost:       DefaultCost,
		timeTarget: DefaultTimeTarget,
		maxCost:    MaxCost,
		logger:     log.New(io.Discard, "", 0),
	}
	h.probe = h.timeProbe
	for _, option := range options {
		if err := option(h); err != nil {
			return nil, err
		}
	}
	if err := h.selfTest(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Hasher) selfTest() error {
	hash, err := h.Hash(ProbePassword, AlgorithmBcrypt, MinCost)
	if err != nil {
		return &ErrCapability{Msg: "hash probe", Err: err}
	}
	if !h.Check(ProbePassword, hash) {
		return &ErrCapability{Msg: "probe did not verify"}
	}
	if h.Check(ProbePassword+"!", hash) {
		return &ErrCapability{Msg: "probe verified a wrong password"}
	}
	return nil
}

// Algorithm returns the algorithm used by HashDefault.
func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

// DefaultWorkFactor returns the cost used by HashDefault.
func (h *Hasher) DefaultWorkFactor() int {
	return h.cost
}

// Hash returns a bcrypt hash of password using a fresh random salt.
//
// A workFactor outside [MinCost, MaxCost] is replaced by DefaultCost rather
// than rejected. An unsupported algorithm returns *ErrUnsupportedAlgorithm.
// Errors from the primitive, such as a password longer than 72 bytes, are
// returned as *ErrHashingFailed.
func (h *Hasher) Hash(password string, algorithm Algorithm, workFactor int) (string, error) {
	if !h.algorithms.contains(algorithm) {
		return "", &ErrUnsupportedAlgorithm{Name: algorithm.String()}
	}
	cost := normalizeCost(workFactor)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", &ErrHashingFailed{Cost: cost, Err: err}
	}
	return string(hash), nil
}

// HashDefault hashes password with the hasher's configured algorithm and cost.
func (h *Hasher) HashDefault(password string) (string, error) {
	return h.Hash(password, h.algorithm, h.cost)
}

// Check reports whether password matches hash.
// Malformed hashes report false. The digest comparison is constant time.
func (h *Hasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Cost returns the cost embedded in hash.
func (h *Hasher) Cost(hash string) (int, error) {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return 0, &ErrMalformedHash{Err: err}
	}
	return cost, nil
}

// NeedsRehash reports whether hash should be replaced on the next successful
// Check: it is malformed or was made at a cost other than the configured one.
func (h *Hasher) NeedsRehash(hash string) bool {
	cost, err := h.Cost(hash)
	if err != nil {
		return true
	}
	return cost != h.cost
}

func normalizeCost(cost int) int {
	if cost < MinCost || cost > MaxCost {
		return DefaultCost
	}
	return cost
}
