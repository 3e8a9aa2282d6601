package output

import (
	"encoding/hex"
	"fmt"

	"github.com/minio/highwayhash"
)

// fingerprintKey is fixed so fingerprints are comparable across runs and hosts.
var fingerprintKey = []byte("centrality-eta yoda fingerprint.")

// Fingerprint returns the hex HighwayHash-256 of data.
func Fingerprint(data []byte) (string, error) {
	if len(fingerprintKey) != 32 {
		return "", fmt.Errorf("hash key must be exactly 32 bytes, got %d", len(fingerprintKey))
	}

	hash, err := highwayhash.New(fingerprintKey)
	if err != nil {
		return "", fmt.Errorf("failed to create hash: %w", err)
	}
	if _, err := hash.Write(data); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
