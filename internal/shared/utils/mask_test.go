package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "o***@acme.test", MaskEmail("ops@acme.test"))
	assert.Equal(t, "a***@acme.test", MaskEmail("a@acme.test"))
	assert.Equal(t, "***", MaskEmail("not-an-email"))
}
