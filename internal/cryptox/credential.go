// Package cryptox generates author credentials and hashes account secrets.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/argon2"
)

// credentialBytes gives 192 bits of entropy; the store keeps a uniqueness
// constraint on credentials as a backstop against the astronomically
// unlikely collision.
const credentialBytes = 24

const saltBytes = 16

// NewCredential returns a fresh opaque credential token: random bytes
// rendered as unpadded base64url.
func NewCredential() (string, error) {
	b := make([]byte, credentialBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewSalt returns a random per-author salt for secret hashing.
func NewSalt() ([]byte, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// HashSecret derives an argon2id hash of the account secret. The plaintext
// secret is never stored and never echoed back.
func HashSecret(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, 1, 64*1024, 4, 32)
}

// VerifySecret reports whether secret matches the stored hash, in constant
// time.
func VerifySecret(secret string, salt, hash []byte) bool {
	candidate := HashSecret(secret, salt)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
