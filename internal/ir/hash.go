package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests.
// Version suffix enables future algorithm migration.
const (
	DomainLegacy    = "eegraph/legacy/v1"
	DomainCloud     = "eegraph/cloud/v1"
	DomainSignature = "eegraph/signature/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest computes the content digest of an encoded value within a domain.
// Two values share a digest exactly when their canonical JSON is identical,
// which is what the serializers use to deduplicate repeated sub-graphs.
func Digest(domain string, v Value) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("Digest: failed to marshal: %w", err)
	}
	return hashWithDomain(domain, canonical), nil
}

// CatalogHash computes a digest over a set of function signatures.
// The order of sigs is irrelevant.
func CatalogHash(sigs []FunctionSig) (string, error) {
	obj := make(Object, len(sigs))
	for _, sig := range sigs {
		obj[sig.Name] = sig.value()
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CatalogHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSignature, canonical), nil
}

// MustDigest is like Digest but panics on error.
// Use only in tests or when the value is known to be finite.
func MustDigest(domain string, v Value) string {
	d, err := Digest(domain, v)
	if err != nil {
		panic(err)
	}
	return d
}
