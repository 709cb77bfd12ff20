package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/meridianvest/platform/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// UserStore is the slice of the credential store the authenticator needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// TrackLogin flips the active flag and stamps lastSeen, returning the
	// updated record.
	TrackLogin(ctx context.Context, id primitive.ObjectID, at time.Time) (*model.User, error)
}

// RefreshTokenStore persists issued refresh tokens. Deleting an entry is the
// revocation mechanism; refresh tokens carry no expiry claim of their own.
type RefreshTokenStore interface {
	Create(ctx context.Context, token string) (*model.RefreshTokenEntry, error)
	Find(ctx context.Context, token string) (*model.RefreshTokenEntry, error)
	// Delete reports whether an entry was actually removed so callers can
	// tell "already logged out" from a store failure.
	Delete(ctx context.Context, token string) (bool, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
