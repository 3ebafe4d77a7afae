// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package pwhash

import (
	"errors"
	"fmt"
)

// ErrUnsupportedAlgorithm is returned when the caller selects an algorithm
// outside the supported set.
type ErrUnsupportedAlgorithm struct {
	Name string
}

func (e *ErrUnsupportedAlgorithm) Error() string {
	return fmt.Sprintf("algorithm not supported: %q", e.Name)
}

// ErrHashingFailed is returned when the bcrypt primitive cannot produce a hash.
type ErrHashingFailed struct {
	Cost int
	Err  error
}

func (e *ErrHashingFailed) Error() string {
	return fmt.Sprintf("hashing at cost %d: %v", e.Cost, e.Err)
}

func (e *ErrHashingFailed) Unwrap() error {
	return e.Err
}

// ErrMalformedHash is returned when a hash record cannot be decoded.
type ErrMalformedHash struct {
	Err error
}

func (e *ErrMalformedHash) Error() string {
	return fmt.Sprintf("malformed hash: %v", e.Err)
}

func (e *ErrMalformedHash) Unwrap() error {
	return e.Err
}

// ErrCapability is returned by New when the platform cannot hash and verify
// a probe password.
type ErrCapability struct {
	Msg string
	Err error
}

func (e *ErrCapability) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("capability check: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("capability check: %s", e.Msg)
}

func (e *ErrCapability) Unwrap() error {
	return e.Err
}

const (
	ErrCodeUnsupportedAlgorithm = "UNSUPPORTED_ALGORITHM"
	ErrCodeHashingFailed        = "HASHING_FAILED"
	ErrCodeMalformedHash        = "MALFORMED_HASH"
	ErrCodeCapability           = "CAPABILITY"
	ErrCodeUnknown              = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
// Wrapped errors are unwrapped before matching; a capability failure wins
// over the hashing error it wraps.
func ErrorCode(err error) string {
	var (
		unsupported *ErrUnsupportedAlgorithm
		failed      *ErrHashingFailed
		malformed   *ErrMalformedHash
		capability  *ErrCapability
	)
	switch {
	case errors.As(err, &capability):
		return ErrCodeCapability
	case errors.As(err, &unsupported):
		return ErrCodeUnsupportedAlgorithm
	case errors.As(err, &failed):
		return ErrCodeHashingFailed
	case errors.As(err, &malformed):
		return ErrCodeMalformedHash
	default:
		return ErrCodeUnknown
	}
}
