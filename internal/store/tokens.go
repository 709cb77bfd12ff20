package store

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/meridianvest/platform/internal/model"
)

// RefreshTokens is the repository for stored refresh tokens. An entry's
// presence is what keeps the token exchangeable; Delete is the revocation.
type RefreshTokens struct {
	col *mongo.Collection
}

// NewRefreshTokens creates the refresh token repository.
func NewRefreshTokens(db *mongo.Database) *RefreshTokens {
	return &RefreshTokens{col: db.Collection("refresh_tokens")}
}

// Create stores a token string.
func (r *RefreshTokens) Create(ctx context.Context, token string) (*model.RefreshTokenEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	entry := &model.RefreshTokenEntry{
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}

	res, err := r.col.InsertOne(ctx, entry)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not persist refresh token")
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		entry.ID = id
	}

	return entry, nil
}

// Find returns the entry for the token, or nil.
func (r *RefreshTokens) Find(ctx context.Context, token string) (*model.RefreshTokenEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var entry model.RefreshTokenEntry
	err := r.col.FindOne(ctx, bson.M{"token": token}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query refresh tokens")
	}

	return &entry, nil
}

// Delete removes the entry and reports whether one was removed.
func (r *RefreshTokens) Delete(ctx context.Context, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete refresh token")
	}

	return res.DeletedCount > 0, nil
}

// DeleteOlderThan prunes entries created before the cutoff. The janitor uses
// it to bound growth of sessions that never logged out.
func (r *RefreshTokens) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to prune refresh tokens")
	}

	return res.DeletedCount, nil
}
