package modactions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kurumibot/models"
)

func TestRecordModerationActionRejectsNone(t *testing.T) {
	service := NewModerationActionsService(nil)

	record, err := service.RecordModerationAction(
		context.Background(), 7, 42, models.ModerationActionNone, "reason", 1)

	require.Error(t, err)
	assert.Nil(t, record)
}
