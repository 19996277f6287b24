package wire

import (
	"testing"

	"github.com/axmq/mqttwire/buffer"
)

// newSharedFromBytes builds a *buffer.Shared over a private copy of b,
// for tests that need a zero-copy view without caring about pooling.
func newSharedFromBytes(t *testing.T, b []byte) *buffer.Shared {
	t.Helper()
	owned := buffer.NewOwned(append([]byte(nil), b...), nil)
	owned.Fill(len(b))
	return owned.Freeze()
}

// newOwnedForTest returns a fresh, unfilled Owned view of size bytes,
// for tests that want to exercise an Encode path directly.
func newOwnedForTest(t *testing.T, size int) *buffer.Owned {
	t.Helper()
	return buffer.NewOwned(make([]byte, size), nil)
}
