package stacktop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexedmem/idxpool/stacktop"
)

func TestRegister_OverridesProbe(t *testing.T) {
	t.Cleanup(stacktop.Reset)

	const want uintptr = 0x1234_5678
	stacktop.Register(func() (uintptr, error) { return want, nil })

	got, err := stacktop.Current()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLockAndProbe_ReturnsRegisteredValue(t *testing.T) {
	const want uintptr = 0xdead_beef
	stacktop.Register(func() (uintptr, error) { return want, nil })
	t.Cleanup(stacktop.Reset)

	top, unlock, err := stacktop.LockAndProbe()
	require.NoError(t, err)
	defer unlock()
	assert.Equal(t, want, top)
}
