package Controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePointsAcceptsPositiveWholeNumbers(t *testing.T) {
	amount, err := parsePoints("25")
	require.NoError(t, err)
	assert.Equal(t, 25, amount)

	amount, err = parsePoints("  10 ")
	require.NoError(t, err)
	assert.Equal(t, 10, amount)
}

func TestParsePointsRejectsBadInput(t *testing.T) {
	cases := []string{"", "abc", "0", "-5", "2.5", "1e3"}
	for _, raw := range cases {
		_, err := parsePoints(raw)
		assert.Error(t, err, raw)
	}
}

func TestParsePointsErrorIsUserFacing(t *testing.T) {
	_, err := parsePoints("oops")
	require.Error(t, err)
	assert.Equal(t, "Points must be a positive whole number", err.Error())
}
