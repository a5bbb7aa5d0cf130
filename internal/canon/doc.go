// Package canon produces canonical JSON and domain-separated fingerprints
// for run outcomes.
//
// Canonical JSON here follows RFC 8785 for the value set it accepts:
//   - object keys sorted by UTF-16 code units
//   - strings NFC normalized, only quote, backslash and control characters escaped
//   - integers only; floats are rejected so fingerprints never depend on
//     float formatting
//   - null is rejected
//
// Callers that need ratios in a fingerprint convert them to basis points first.
package canon
