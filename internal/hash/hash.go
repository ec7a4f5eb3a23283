// Package hash provides content digests for packages and part payloads.
//
// Deckmerge uses SHA-256 digests for two things: confirming that the source
// and target packages were not modified while a merge was running, and
// recognising identical payloads (images, media) so they are stored once in
// the merged package. The package provides a real implementation using
// crypto/sha256 and a fake implementation for testing.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Hasher provides an abstraction for hashing operations.
type Hasher interface {
	// HashFile computes the hash of the file at the given path.
	HashFile(path string) (string, error)

	// HashBytes computes the hash of an in-memory payload.
	HashBytes(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashFile computes the SHA-256 hash of the file at the given path.
func (h *SHA256Hasher) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashBytes computes the SHA-256 hash of data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher implements Hasher with deterministic hashes for testing.
//
// File hashes can be scripted per path; each HashFile call consumes the next
// value of the sequence and the last value repeats once it is exhausted.
type FakeHasher struct {
	hashes map[string][]string
	calls  map[string]int
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		hashes: make(map[string][]string),
		calls:  make(map[string]int),
	}
}

// SetHash sets the hash for a specific path (for testing).
func (h *FakeHasher) SetHash(path, hash string) {
	h.SetHashSequence(path, hash)
}

// SetHashSequence scripts successive HashFile results for path.
func (h *FakeHasher) SetHashSequence(path string, hashes ...string) {
	h.hashes[path] = hashes
	h.calls[path] = 0
}

// HashFile returns the predetermined hash for the given path.
func (h *FakeHasher) HashFile(path string) (string, error) {
	seq, ok := h.hashes[path]
	if !ok || len(seq) == 0 {
		return "fakehash", nil
	}
	i := h.calls[path]
	h.calls[path]++
	if i >= len(seq) {
		i = len(seq) - 1
	}
	return seq[i], nil
}

// HashBytes returns the real SHA-256 digest so payload dedup still works in tests.
func (h *FakeHasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
