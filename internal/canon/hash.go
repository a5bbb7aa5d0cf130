package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainReport is the fingerprint domain for run reports.
// The version suffix allows the digest layout to change later.
const DomainReport = "valiblox/report/v1"

// HashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
// The null byte keeps the domain/data boundary unambiguous.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint hashes the canonical JSON of v under domain.
func Fingerprint(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return HashWithDomain(domain, data), nil
}

// BasisPoints converts a ratio in [0,1] to an integer number of basis
// points, rounding half up.
func BasisPoints(ratio float64) int {
	return int(ratio*10000 + 0.5)
}
