// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package pwhash_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/mdhender/pwhash"
	"golang.org/x/crypto/bcrypt"
)

func newHasher(t *testing.T, options ...pwhash.Option) *pwhash.Hasher {
	t.Helper()
	h, err := pwhash.New(options...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func TestHasher_HashAndCheck(t *testing.T) {
	h := newHasher(t)
	for _, algorithm := range []pwhash.Algorithm{pwhash.AlgorithmDefault, pwhash.AlgorithmBcrypt} {
		for cost := pwhash.MinCost; cost <= pwhash.MinCost+2; cost++ {
			hash, err := h.Hash("secret123", algorithm, cost)
			if err != nil {
				t.Fatalf("%s/%d: Hash: %v", algorithm, cost, err)
			}
			if !h.Check("secret123", hash) {
				t.Errorf("%s/%d: Check returned false for the hashed password", algorithm, cost)
			}
			if got, err := h.Cost(hash); err != nil {
				t.Errorf("%s/%d: Cost: %v", algorithm, cost, err)
			} else if got != cost {
				t.Errorf("%s/%d: embedded cost want %d, got %d", algorithm, cost, cost, got)
			}
		}
	}
}

func TestHasher_CheckWrongPassword(t *testing.T) {
	h := newHasher(t)
	hash, err := h.Hash("secret123", pwhash.AlgorithmDefault, pwhash.MinCost)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	for _, password := range []string{"wrong", "secret1234", "Secret123", ""} {
		if h.Check(password, hash) {
			t.Errorf("Check(%q) should fail", password)
		}
	}
}

func TestHasher_HashIsSalted(t *testing.T) {
	h := newHasher(t)
	first, err := h.Hash("same-password", pwhash.AlgorithmBcrypt, pwhash.MinCost)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	second, err := h.Hash("same-password", pwhash.AlgorithmBcrypt, pwhash.MinCost)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same password should differ, both %q", first)
	}
	if !h.Check("same-password", first) || !h.Check("same-password", second) {
		t.Fatal("both hashes should verify against the original password")
	}
}

func TestHasher_OutOfRangeCostUsesDefault(t *testing.T) {
	h := newHasher(t)
	for _, workFactor := range []int{-1, 0, 3, 32, 100} {
		hash, err := h.Hash("secret123", pwhash.AlgorithmDefault, workFactor)
		if err != nil {
			t.Fatalf("cost %d: Hash: %v", workFactor, err)
		}
		cost, err := h.Cost(hash)
		if err != nil {
			t.Fatalf("cost %d: Cost: %v", workFactor, err)
		}
		if cost != pwhash.DefaultCost {
			t.Errorf("cost %d: want default cost %d, got %d", workFactor, pwhash.DefaultCost, cost)
		}
	}
}

func TestHasher_UnsupportedAlgorithm(t *testing.T) {
	h := newHasher(t)
	hash, err := h.Hash("secret123", pwhash.Algorithm(42), pwhash.MinCost)
	if hash != "" {
		t.Errorf("unsupported algorithm should produce no hash, got %q", hash)
	}
	var unsupported *pwhash.ErrUnsupportedAlgorithm
	if !errors.As(err, &unsupported) {
		t.Fatalf("want *ErrUnsupportedAlgorithm, got %v", err)
	}
	if code := pwhash.ErrorCode(err); code != pwhash.ErrCodeUnsupportedAlgorithm {
		t.Errorf("ErrorCode want %q, got %q", pwhash.ErrCodeUnsupportedAlgorithm, code)
	}
}

func TestHasher_EmptyPassword(t *testing.T) {
	h := newHasher(t)
	hash, err := h.Hash("", pwhash.AlgorithmDefault, pwhash.MinCost)
	if err != nil {
		t.Fatalf("Hash(\"\"): %v", err)
	}
	if !h.Check("", hash) {
		t.Error("empty password should verify against its own hash")
	}
	if h.Check("x", hash) {
		t.Error("non-empty password should not verify against the hash of an empty one")
	}
}

func TestHasher_PasswordTooLong(t *testing.T) {
	h := newHasher(t)
	_, err := h.Hash(strings.Repeat("a", 73), pwhash.AlgorithmDefault, pwhash.MinCost)
	var failed *pwhash.ErrHashingFailed
	if !errors.As(err, &failed) {
		t.Fatalf("want *ErrHashingFailed, got %v", err)
	}
	if !errors.Is(err, bcrypt.ErrPasswordTooLong) {
		t.Errorf("want wrapped bcrypt.ErrPasswordTooLong, got %v", err)
	}
	if code := pwhash.ErrorCode(err); code != pwhash.ErrCodeHashingFailed {
		t.Errorf("ErrorCode want %q, got %q", pwhash.ErrCodeHashingFailed, code)
	}
}

func TestHasher_ConcurrentHashAndCheck(t *testing.T) {
	h := newHasher(t, pwhash.WithCost(pwhash.MinCost))
	shared, err := h.HashDefault("shared-password")
	if err != nil {
		t.Fatalf("HashDefault: %v", err)
	}

	const numWorkers = 8
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		workerID := i
		go func() {
			defer wg.Done()
			password := fmt.Sprintf("password-%d", workerID)
			hash, err := h.Hash(password, pwhash.AlgorithmBcrypt, pwhash.MinCost)
			if err != nil {
				t.Errorf("worker %d: Hash: %v", workerID, err)
				return
			}
			if !h.Check(password, hash) {
				t.Errorf("worker %d: Check of own hash failed", workerID)
			}
			if !h.Check("shared-password", shared) {
				t.Errorf("worker %d: Check of shared hash failed", workerID)
			}
			if h.Check(password, shared) {
				t.Errorf("worker %d: wrong password matched shared hash", workerID)
			}
			if h.NeedsRehash(hash) {
				t.Errorf("worker %d: hash at configured cost needs rehash", workerID)
			}
		}()
	}
	wg.Wait()
}

func TestHasher_CheckMalformedHash(t *testing.T) {
	h := newHasher(t)
	for _, hash := range []string{
		"not-a-valid-hash-string",
		"",
		"$2a$",
		"$argon2id$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$2a$99$abcdefghijklmnopqrstuuABCDEFGHIJKLMNOPQRSTUVWXYZ01234",
	} {
		if h.Check("anything", hash) {
			t.Errorf("Check against %q should be false", hash)
		}
	}
}

func TestHasher_CostMalformedHash(t *testing.T) {
	h := newHasher(t)
	_, err := h.Cost("not-a-valid-hash-string")
	var malformed *pwhash.ErrMalformedHash
	if !errors.As(err, &malformed) {
		t.Fatalf("want *ErrMalformedHash, got %v", err)
	}
}

func TestHasher_NeedsRehash(t *testing.T) {
	h := newHasher(t, pwhash.WithCost(pwhash.MinCost))
	current, err := h.HashDefault("secret123")
	if err != nil {
		t.Fatalf("HashDefault: %v", err)
	}
	if h.NeedsRehash(current) {
		t.Error("hash at the configured cost should not need a rehash")
	}
	older, err := h.Hash("secret123", pwhash.AlgorithmBcrypt, pwhash.MinCost+1)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !h.NeedsRehash(older) {
		t.Error("hash at a different cost should need a rehash")
	}
	if !h.NeedsRehash("garbage") {
		t.Error("malformed hash should need a rehash")
	}
}

func TestNew_Options(t *testing.T) {
	h := newHasher(t, pwhash.WithCost(12), pwhash.WithAlgorithm(pwhash.AlgorithmBcrypt))
	if h.DefaultWorkFactor() != 12 {
		t.Errorf("DefaultWorkFactor want 12, got %d", h.DefaultWorkFactor())
	}
	if h.Algorithm() != pwhash.AlgorithmBcrypt {
		t.Errorf("Algorithm want bcrypt, got %s", h.Algorithm())
	}

	h = newHasher(t, pwhash.WithCost(40))
	if h.DefaultWorkFactor() != pwhash.DefaultCost {
		t.Errorf("out-of-range cost should fall back to %d, got %d", pwhash.DefaultCost, h.DefaultWorkFactor())
	}

	if _, err := pwhash.New(pwhash.WithAlgorithm(pwhash.Algorithm(-1))); err == nil {
		t.Error("New should reject an unsupported algorithm")
	}
}

func TestParseAlgorithm(t *testing.T) {
	for name, want := range map[string]pwhash.Algorithm{
		"":        pwhash.AlgorithmDefault,
		"default": pwhash.AlgorithmDefault,
		"bcrypt":  pwhash.AlgorithmBcrypt,
		"BCRYPT":  pwhash.AlgorithmBcrypt,
		"2y":      pwhash.AlgorithmBcrypt,
		"2b":      pwhash.AlgorithmBcrypt,
	} {
		got, err := pwhash.ParseAlgorithm(name)
		if err != nil {
			t.Errorf("ParseAlgorithm(%q): %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseAlgorithm(%q) want %s, got %s", name, want, got)
		}
	}

	_, err := pwhash.ParseAlgorithm("argon2")
	var unsupported *pwhash.ErrUnsupportedAlgorithm
	if !errors.As(err, &unsupported) {
		t.Fatalf("want *ErrUnsupportedAlgorithm, got %v", err)
	}
	if unsupported.Name != "argon2" {
		t.Errorf("Name want %q, got %q", "argon2", unsupported.Name)
	}
}

func TestErrorCode(t *testing.T) {
	capability := &pwhash.ErrCapability{Msg: "hash probe", Err: &pwhash.ErrHashingFailed{Cost: 4, Err: errors.New("boom")}}
	if code := pwhash.ErrorCode(capability); code != pwhash.ErrCodeCapability {
		t.Errorf("capability: want %q, got %q", pwhash.ErrCodeCapability, code)
	}
	if code := pwhash.ErrorCode(errors.New("other")); code != pwhash.ErrCodeUnknown {
		t.Errorf("other: want %q, got %q", pwhash.ErrCodeUnknown, code)
	}
}
