package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesa/internal/domains/reservation/service"
)

func TestNewConfirmationCode(t *testing.T) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	seen := map[string]bool{}

	for range 50 {
		code, err := service.NewConfirmationCode()
		require.NoError(t, err)

		assert.Len(t, code, 6)

		for _, char := range code {
			assert.True(t, strings.ContainsRune(alphabet, char), "unexpected character %q in code %s", char, code)
		}

		seen[code] = true
	}

	// 50 draws from a 32^6 space colliding into one value would mean the
	// generator is broken.
	assert.Greater(t, len(seen), 1)
}
