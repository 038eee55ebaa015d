//go:build unit

package enrollment_test

import (
	"testing"
	"time"

	"edustore/internal/domain/enrollment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnrollment(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("three months expire after 90 days", func(t *testing.T) {
		e, err := enrollment.NewEnrollment(uuid.New(), uuid.New(), 3, now)
		require.NoError(t, err)

		assert.Equal(t, now.Add(90*24*time.Hour), e.ExpiresAt())
	})

	t.Run("twelve months expire after 360 days, not a calendar year", func(t *testing.T) {
		e, err := enrollment.NewEnrollment(uuid.New(), uuid.New(), 12, now)
		require.NoError(t, err)

		assert.Equal(t, now.Add(360*24*time.Hour), e.ExpiresAt())
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		_, err := enrollment.NewEnrollment(uuid.New(), uuid.New(), 0, now)
		assert.ErrorIs(t, err, enrollment.ErrInvalidDuration)

		_, err = enrollment.NewEnrollment(uuid.New(), uuid.New(), -1, now)
		assert.ErrorIs(t, err, enrollment.ErrInvalidDuration)
	})
}

func TestIsActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e, err := enrollment.NewEnrollment(uuid.New(), uuid.New(), 1, now)
	require.NoError(t, err)

	assert.True(t, e.IsActiveAt(now))
	assert.True(t, e.IsActiveAt(now.Add(29*24*time.Hour)))
	assert.False(t, e.IsActiveAt(now.Add(30*24*time.Hour)))
}
