// Package jwt inspects access tokens locally, without network calls.
//
// The pipeline holds tokens it did not mint and cannot verify their
// signatures; the [Guard] therefore decodes claims unverified and answers
// only two questions: has the embedded expiry passed, and what subject does
// the token carry. A token that cannot be decoded is reported as expired
// (fail closed); subject extraction from a malformed token fails with an
// explicit decoding error.
package jwt
