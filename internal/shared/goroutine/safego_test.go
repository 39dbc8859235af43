package goroutine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadhub/leadhub/internal/shared/logger"
)

func TestSafeRun_RecoversPanic(t *testing.T) {
	err := SafeRun(logger.NewNopLogger(), "expiration-pass", func() {
		panic("boom")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expiration-pass panicked: boom")
}

func TestSafeRun_NoPanic(t *testing.T) {
	ran := false
	err := SafeRun(logger.NewNopLogger(), "reminder-pass", func() { ran = true })

	assert.NoError(t, err)
	assert.True(t, ran)
}
