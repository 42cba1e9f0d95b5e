// Package token performs local, advisory triage of bearer tokens.
//
// The inspector decodes a token's payload segment without verifying the
// signature, and only to read the numeric exp claim. Any parse failure is
// treated as "already expired" (fail-closed). It is never a security
// boundary: the backend remains the sole authority on token validity.
package token
