package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/meridianvest/platform/internal/model"
)

func TestUserSafe(t *testing.T) {
	now := time.Now()
	user := &model.User{
		ID:                primitive.NewObjectID(),
		FullName:          "Test User",
		Email:             "test@example.com",
		Password:          "$2a$10$secret-hash",
		Phone:             "+14155552671",
		Gender:            "female",
		Country:           "US",
		IsVerified:        true,
		VerificationToken: "deadbeef",
		Wallet:            primitive.NewObjectID(),
		LastSeen:          &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	safe := user.Safe()
	require.NotNil(t, safe)

	assert.Equal(t, user.ID.Hex(), safe.ID)
	assert.Equal(t, "test@example.com", safe.Email)
	assert.Equal(t, user.Wallet.Hex(), safe.Wallet)
	assert.Empty(t, safe.KYC)

	// neither secret has a field on the projection, check the wire form too
	raw, err := json.Marshal(safe)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
	assert.NotContains(t, string(raw), "deadbeef")
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "verificationToken")
}

func TestUserSafeNil(t *testing.T) {
	var user *model.User
	assert.Nil(t, user.Safe())
}

func TestSafeUserRedact(t *testing.T) {
	now := time.Now()
	user := &model.User{
		ID:       primitive.NewObjectID(),
		FullName: "Test User",
		Email:    "test@example.com",
		Phone:    "+14155552671",
		Country:  "US",
		Active:   true,
		LastSeen: &now,
	}

	safe := user.Safe()
	redacted := safe.Redact("phone", "country", "active", "lastSeen")

	assert.Empty(t, redacted.Phone)
	assert.Empty(t, redacted.Country)
	assert.False(t, redacted.Active)
	assert.Nil(t, redacted.LastSeen)

	// identity survives, the original projection is untouched
	assert.Equal(t, user.ID.Hex(), redacted.ID)
	assert.Equal(t, "test@example.com", redacted.Email)
	assert.Equal(t, "+14155552671", safe.Phone)
	assert.True(t, safe.Active)
}
