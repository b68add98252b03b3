package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNicknameFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z][a-z]+_[A-Z][a-z]+_\d{4}$`)

	for i := 0; i < 50; i++ {
		nickname, err := GenerateNickname()
		require.NoError(t, err)
		assert.Regexp(t, pattern, nickname)
		assert.LessOrEqual(t, len(nickname), 50, "must fit the column limit")
	}
}
