package attest

import (
	"testing"

	"github.com/zen-systems/burngate/pkg/crypto"
)

func newTestSigner(t *testing.T) (*crypto.Signer, error) {
	t.Helper()
	return crypto.NewSigner("test-key")
}
