package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockInstance_SecondHolderRejected(t *testing.T) {
	dir := t.TempDir()

	first, err := LockInstance(dir)
	require.NoError(t, err)

	_, err = LockInstance(dir)
	assert.ErrorIs(t, err, ErrAnotherInstance)

	require.NoError(t, first.Release())

	again, err := LockInstance(dir)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}
