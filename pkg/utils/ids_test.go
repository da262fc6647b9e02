package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidID(t *testing.T) {
	assert.True(t, ValidID(NewID()))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("12345"))
	assert.False(t, ValidID(" "+NewID()))
	assert.NotEqual(t, NewID(), NewID())
}
