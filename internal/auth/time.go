package auth

import (
	"fmt"
	"time"
)

// IsWithinThresholdPeriod checks if the given time is within the threshold
func IsWithinThresholdPeriod(t time.Time, pattern string) (bool, error) {
	duration, err := time.ParseDuration(pattern)
	if err != nil {
		return false, err
	}

	threshold := time.Now().Add(-duration)
	if t.After(threshold) {
		return true, nil
	}

	return false, nil
}

// IsOutsideThresholdPeriod is the negation of IsWithinThresholdPeriod
func IsOutsideThresholdPeriod(t time.Time, pattern string) (bool, error) {
	valid, err := IsWithinThresholdPeriod(t, pattern)
	if err != nil {
		return false, err
	}

	return !valid, nil
}

// PasswordChangeAllowed reports whether the cooldown since the last password
// change has elapsed. Registration stamps the timestamp, so a nil value only
// occurs on legacy records and allows the change.
func PasswordChangeAllowed(lastChange *time.Time, cooldownDays int) bool {
	if lastChange == nil {
		return true
	}

	outside, err := IsOutsideThresholdPeriod(*lastChange, fmt.Sprintf("%dh", cooldownDays*24))
	if err != nil {
		return false
	}
	return outside
}
