package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterminism(t *testing.T) {
	v := Object{"missing": []string{"A-1"}, "delivered": 3}

	a, err := Fingerprint(DomainReport, v)
	require.NoError(t, err)
	b, err := Fingerprint(DomainReport, Object{"delivered": 3, "missing": []string{"A-1"}})
	require.NoError(t, err)

	assert.Equal(t, a, b, "key order must not affect the fingerprint")
	assert.Len(t, a, 64, "SHA-256 hex is 64 characters")
}

func TestFingerprintDomainSeparation(t *testing.T) {
	v := Object{"k": "v"}
	a, err := Fingerprint("valiblox/a/v1", v)
	require.NoError(t, err)
	b, err := Fingerprint("valiblox/b/v1", v)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	// "ab" + 0x00 + "c" must differ from "a" + 0x00 + "bc".
	assert.NotEqual(t, HashWithDomain("ab", []byte("c")), HashWithDomain("a", []byte("bc")))
}

func TestFingerprintRejectsFloat(t *testing.T) {
	_, err := Fingerprint(DomainReport, Object{"score": 0.9})
	assert.Error(t, err)
}

func TestBasisPoints(t *testing.T) {
	assert.Equal(t, 10000, BasisPoints(1))
	assert.Equal(t, 0, BasisPoints(0))
	assert.Equal(t, 9091, BasisPoints(1-1.0/11.0))
	assert.Equal(t, 6667, BasisPoints(6.0/9.0))
}
