package security

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultBcryptCost is the work factor used for stored passwords.
const DefaultBcryptCost = 10

// MaxPasswordBytes is the longest password bcrypt accepts. Longer inputs
// would otherwise be compared on their first 72 bytes only.
const MaxPasswordBytes = 72

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	// Hash returns a salted one-way hash of plaintext.
	Hash(ctx context.Context, plaintext string) (string, error)

	// Compare reports whether plaintext matches hash.
	// A mismatch is (false, nil); a malformed hash is an error.
	Compare(ctx context.Context, hash, plaintext string) (bool, error)
}

// BcryptHasher implements PasswordHasher with bcrypt.
// Concurrent hash and compare calls are bounded by a weighted semaphore.
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewBcryptHasher creates a bcrypt hasher with the given cost.
// maxConcurrent <= 0 means runtime.NumCPU().
func NewBcryptHasher(cost, maxConcurrent int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.NumCPU()
	}
	return &BcryptHasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(maxConcurrent)),
	}, nil
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash generates a bcrypt hash of plaintext.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquire hash slot: %w", err)
	}
	defer h.sem.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare checks plaintext against a bcrypt hash.
// Passwords longer than MaxPasswordBytes never match.
func (h *BcryptHasher) Compare(ctx context.Context, hash, plaintext string) (bool, error) {
	if len(plaintext) > MaxPasswordBytes {
		return false, nil
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("acquire hash slot: %w", err)
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare password: %w", err)
	}
}
