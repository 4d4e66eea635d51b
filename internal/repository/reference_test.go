package repository

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateReferenceFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{8}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		ref, err := GenerateReference()
		require.NoError(t, err)
		require.Regexp(t, pattern, ref)
		seen[ref] = struct{}{}
	}
	// 1000 draws from a ~2.8e12 space colliding down to a handful would
	// mean the generator is broken, not unlucky.
	require.Greater(t, len(seen), 990)
}
