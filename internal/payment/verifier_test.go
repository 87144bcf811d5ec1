package payment

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignDeterministic(t *testing.T) {
	v := NewVerifier("s3cret")
	sig := v.Sign("order_abc", "pay_xyz")
	assert.Equal(t, sig, v.Sign("order_abc", "pay_xyz"))
	assert.Len(t, sig, 64)
	_, err := hex.DecodeString(sig)
	require.NoError(t, err)
}

func TestVerifyRoundTrip(t *testing.T) {
	v := NewVerifier("s3cret")
	sig := v.Sign("order_abc", "pay_xyz")
	assert.True(t, v.Verify("order_abc", "pay_xyz", sig))
}

func TestVerifyRejectsMutations(t *testing.T) {
	v := NewVerifier("s3cret")
	sig := v.Sign("order_abc", "pay_xyz")

	// flipping any single hex char must fail
	for i := 0; i < len(sig); i++ {
		mutated := []byte(sig)
		if mutated[i] == 'f' {
			mutated[i] = '0'
		} else {
			mutated[i] = 'f'
		}
		assert.False(t, v.Verify("order_abc", "pay_xyz", string(mutated)), "pos %d", i)
	}

	assert.False(t, v.Verify("order_abd", "pay_xyz", sig))
	assert.False(t, v.Verify("order_abc", "pay_xya", sig))
	assert.False(t, v.Verify("order_abc", "pay_xyz", ""))
	assert.False(t, NewVerifier("other").Verify("order_abc", "pay_xyz", sig))
}
