package warnings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validation runs before any repository access, so a nil repository is enough
// to exercise the rejection paths.
func TestWarningsServiceValidation(t *testing.T) {
	service := NewWarningsService(nil, 10)
	ctx := context.Background()

	t.Run("IncreaseWarningRejectsNonPositiveIDs", func(t *testing.T) {
		_, err := service.IncreaseWarning(ctx, 0, 7)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "user_id must be positive")

		_, err = service.IncreaseWarning(ctx, 42, -1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "guild_id must be positive")
	})

	t.Run("GetWarningsRejectsNonPositiveIDs", func(t *testing.T) {
		_, err := service.GetWarnings(ctx, -1, 7)
		require.Error(t, err)

		_, err = service.GetWarnings(ctx, 42, 0)
		require.Error(t, err)
	})

	t.Run("ResetWarningsRejectsNonPositiveIDs", func(t *testing.T) {
		require.Error(t, service.ResetWarnings(ctx, 0, 7))
		require.Error(t, service.ResetWarnings(ctx, 42, 0))
	})
}

func TestMaxWarnings(t *testing.T) {
	service := NewWarningsService(nil, 10)
	assert.Equal(t, 10, service.MaxWarnings())
}
