// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package pwhash

import (
	"fmt"
	"strings"
)

// Algorithm selects the adaptive hash used to create a hash record.
// Both values currently produce bcrypt hashes.
type Algorithm int

const (
	AlgorithmDefault Algorithm = iota
	AlgorithmBcrypt
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmDefault:
		return "default"
	case AlgorithmBcrypt:
		return "bcrypt"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm maps a name to an Algorithm.
// The bcrypt version prefixes ("2a", "2b", "2y") are accepted as aliases for bcrypt.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return AlgorithmDefault, nil
	case "bcrypt", "2a", "2b", "2y":
		return AlgorithmBcrypt, nil
	}
	return AlgorithmDefault, &ErrUnsupportedAlgorithm{Name: name}
}

// algorithmSet is the fixed list of algorithms a Hasher accepts.
type algorithmSet []Algorithm

func supportedAlgorithms() algorithmSet {
	return algorithmSet{AlgorithmDefault, AlgorithmBcrypt}
}

func (s algorithmSet) contains(a Algorithm) bool {
	for _, v := range s {
		if v == a {
			return true
		}
	}
	return false
}
