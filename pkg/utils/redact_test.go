package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashEmail(t *testing.T) {
	h := HashEmail("j@x.com")
	assert.Len(t, h, 12)
	assert.NotContains(t, h, "@")
	assert.Equal(t, h, HashEmail("  J@X.com "))
	assert.NotEqual(t, h, HashEmail("k@x.com"))
	assert.Empty(t, HashEmail("   "))
}
