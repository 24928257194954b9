// Package crypto signs and verifies evidence attestations with ed25519.
// Keys live under ~/.burngate/keys and are generated on first use.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

// Signature is a detached signature over a canonical payload.
type Signature struct {
	Alg      string `json:"alg"`
	PubKeyID string `json:"pub_key_id"`
	Sig      string `json:"sig"`
}

// Validate checks the signature envelope fields.
func (s *Signature) Validate() error {
	if s == nil {
		return fmt.Errorf("signature required")
	}
	if s.Alg != "ed25519" {
		return fmt.Errorf("unsupported signature algorithm %q", s.Alg)
	}
	if s.PubKeyID == "" {
		return fmt.Errorf("signature key id required")
	}
	if s.Sig == "" {
		return fmt.Errorf("signature payload required")
	}
	return nil
}

// Signer signs attestation payloads.
type Signer struct {
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
	KeyID      string
}

// NewSigner loads the key named keyID from the key directory, generating and
// persisting one when none exists.
func NewSigner(keyID string) (*Signer, error) {
	if keyID == "" {
		return nil, fmt.Errorf("key id is required")
	}
	keyDir, err := keyDirPath()
	if err != nil {
		return nil, err
	}
	keyPath := filepath.Join(keyDir, keyID+".key")

	var privateKey ed25519.PrivateKey
	data, err := os.ReadFile(keyPath)
	if err == nil {
		if len(data) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("key file %s has wrong size %d", keyPath, len(data))
		}
		privateKey = ed25519.PrivateKey(data)
	} else {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		privateKey = priv
		if err := os.WriteFile(keyPath, []byte(privateKey), 0600); err != nil {
			return nil, err
		}
	}

	pub := privateKey.Public().(ed25519.PublicKey)
	if err := os.WriteFile(filepath.Join(keyDir, keyID+".pub"), []byte(pub), 0644); err != nil {
		return nil, err
	}

	return &Signer{
		PrivateKey: privateKey,
		PublicKey:  pub,
		KeyID:      keyID,
	}, nil
}

// Sign produces a detached signature over the payload.
func (s *Signer) Sign(payload []byte) *Signature {
	sig := ed25519.Sign(s.PrivateKey, payload)
	return &Signature{
		Alg:      "ed25519",
		PubKeyID: s.KeyID,
		Sig:      base64.StdEncoding.EncodeToString(sig),
	}
}

// Verify checks a detached signature against the payload, loading the public
// key named in the signature.
func Verify(payload []byte, sig *Signature) error {
	if err := sig.Validate(); err != nil {
		return err
	}
	sigBytes, err := base64.StdEncoding.DecodeString(sig.Sig)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	pubKey, err := loadPublicKey(sig.PubKeyID)
	if err != nil {
		return err
	}
	if !ed25519.Verify(pubKey, payload, sigBytes) {
		return fmt.Errorf("signature verification failed for key %s", sig.PubKeyID)
	}
	return nil
}

func loadPublicKey(keyID string) (ed25519.PublicKey, error) {
	keyDir, err := keyDirPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(keyDir, keyID+".pub"))
	if err != nil {
		return nil, fmt.Errorf("load public key %s: %w", keyID, err)
	}
	if len(data) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key %s has wrong size %d", keyID, len(data))
	}
	return ed25519.PublicKey(data), nil
}

func keyDirPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	keyDir := filepath.Join(home, ".burngate", "keys")
	if err := os.MkdirAll(keyDir, 0700); err != nil {
		return "", err
	}
	return keyDir, nil
}
