package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLoggerWithAndNamed(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Named("sub").With(logging.Int("n", 1)).Warn("scoped")
	assert.True(t, logger.HasMessage("warn", "scoped"))
}

//Personal.AI order the ending
