package Controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNewPassword(t *testing.T) {
	assert.NoError(t, validateNewPassword("longenough1", "longenough1"))

	err := validateNewPassword("longenough1", "different1")
	if assert.Error(t, err) {
		assert.Equal(t, "New passwords do not match", err.Error())
	}

	err = validateNewPassword("short", "short")
	if assert.Error(t, err) {
		assert.Equal(t, "New password must be at least 8 characters long", err.Error())
	}

	// mismatch is reported before length
	err = validateNewPassword("short", "shorter")
	if assert.Error(t, err) {
		assert.Equal(t, "New passwords do not match", err.Error())
	}
}
