package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianvest/platform/internal/auth"
)

func TestIsWithinThresholdPeriod(t *testing.T) {
	t.Run("recent time is within", func(t *testing.T) {
		within, err := auth.IsWithinThresholdPeriod(time.Now().Add(-time.Minute), "1h")
		require.NoError(t, err)
		assert.True(t, within)
	})

	t.Run("old time is outside", func(t *testing.T) {
		within, err := auth.IsWithinThresholdPeriod(time.Now().Add(-2*time.Hour), "1h")
		require.NoError(t, err)
		assert.False(t, within)

		outside, err := auth.IsOutsideThresholdPeriod(time.Now().Add(-2*time.Hour), "1h")
		require.NoError(t, err)
		assert.True(t, outside)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := auth.IsWithinThresholdPeriod(time.Now(), "not-a-duration")
		assert.Error(t, err)
	})
}

func TestPasswordChangeAllowed(t *testing.T) {
	t.Run("never changed", func(t *testing.T) {
		assert.True(t, auth.PasswordChangeAllowed(nil, 21))
	})

	t.Run("inside cooldown", func(t *testing.T) {
		changed := time.Now().Add(-24 * time.Hour)
		assert.False(t, auth.PasswordChangeAllowed(&changed, 21))
	})

	t.Run("cooldown elapsed", func(t *testing.T) {
		changed := time.Now().Add(-22 * 24 * time.Hour)
		assert.True(t, auth.PasswordChangeAllowed(&changed, 21))
	})

	t.Run("zero cooldown always allows", func(t *testing.T) {
		changed := time.Now().Add(-time.Minute)
		assert.True(t, auth.PasswordChangeAllowed(&changed, 0))
	})
}
