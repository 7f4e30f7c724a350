package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// SecretPrefix tags every issued API key secret. The environment marker lets
// leak scanners recognize docstack credentials in public code.
const SecretPrefix = "dk_live_"

// secretRandomBytes gives 256 bits of entropy per secret.
const secretRandomBytes = 32

// GenerateApiKeySecret returns a fresh plaintext API key secret:
// the environment prefix followed by 64 hex characters.
func GenerateApiKeySecret() (string, error) {
	random, err := GenerateRandomToken(secretRandomBytes)
	if err != nil {
		return "", err
	}
	return SecretPrefix + random, nil
}

// HashApiKeySecret returns the hex SHA-256 digest of the full secret.
// Only this digest is ever stored; lookup hashes the presented value.
func HashApiKeySecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// MaskApiKeySecret renders the prefix+suffix preview that is safe to show
// after issuance, e.g. "dk_live_ab12…89ef".
func MaskApiKeySecret(secret string) string {
	if len(secret) <= len(SecretPrefix)+8 {
		return "****"
	}
	return secret[:len(SecretPrefix)+4] + "…" + secret[len(secret)-4:]
}
