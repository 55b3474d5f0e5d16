package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewInviteCodeShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewInviteCode()
		require.NoError(t, err)
		require.Len(t, code, InviteCodeLength)
		for _, r := range code {
			require.Contains(t, inviteCodeAlphabet, string(r))
		}
		seen[code] = true
	}
	// 100 draws from a 36^8 space colliding would mean a broken generator.
	require.Len(t, seen, 100)
}
