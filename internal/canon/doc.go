// Package canon provides canonical JSON encoding and content hashes for
// scanner reports and registration results.
//
// The value model is sealed: String, Int, Bool, Array and Object. Floats and
// null are not representable, so every encoding is exact and a given input
// always hashes to the same identity. Encoding follows RFC 8785: object keys
// sorted by UTF-16 code units, no insignificant whitespace, no HTML escaping,
// and NFC-normalized strings.
//
// Hashes are SHA-256 over domain || 0x00 || canonical JSON, with a versioned
// domain per kind of content.
package canon
