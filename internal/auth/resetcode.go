package auth

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync"
	"time"
)

// CodeRegistry stores outstanding password-reset codes. Codes are single-use,
// tied to an exact {email, code} pair and expire on their own. Nothing here
// dedupes per email: several live codes for one address may coexist and each
// is independently consumable.
type CodeRegistry interface {
	// Issue creates and registers a new code for the email.
	Issue(ctx context.Context, email string) (string, error)
	// Consume removes the matching entry. It reports false for codes that
	// never existed, expired, or were already used.
	Consume(ctx context.Context, email, code string) (bool, error)
}

// GenerateCode produces a 6-digit numeric reset code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}

	digits := []byte("000000")
	s := n.String()
	copy(digits[len(digits)-len(s):], s)
	return string(digits), nil
}

type codeEntry struct {
	email string
	code  string
	timer *time.Timer
}

// MemoryCodeRegistry is the process-local registry: cheap, self-expiring, and
// lost on restart. Outstanding codes become unusable after a restart and the
// user has to re-request; state is not shared across instances.
type MemoryCodeRegistry struct {
	mu      sync.Mutex
	entries []*codeEntry
	ttl     time.Duration

	// generate is swappable in tests
	generate func() (string, error)
}

// NewMemoryCodeRegistry creates a registry whose codes expire after ttl.
func NewMemoryCodeRegistry(ttl time.Duration) *MemoryCodeRegistry {
	return &MemoryCodeRegistry{
		ttl:      ttl,
		generate: GenerateCode,
	}
}

// Issue implements CodeRegistry.
func (r *MemoryCodeRegistry) Issue(_ context.Context, email string) (string, error) {
	code, err := r.generate()
	if err != nil {
		return "", err
	}

	entry := &codeEntry{email: email, code: code}

	r.mu.Lock()
	entry.timer = time.AfterFunc(r.ttl, func() {
		r.remove(entry)
	})
	r.entries = append(r.entries, entry)
	r.mu.Unlock()

	return code, nil
}

// Consume implements CodeRegistry.
func (r *MemoryCodeRegistry) Consume(_ context.Context, email, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.email == email && e.code == code {
			e.timer.Stop()
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Len reports the number of live codes.
func (r *MemoryCodeRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *MemoryCodeRegistry) remove(entry *codeEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e == entry {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}
