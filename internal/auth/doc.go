// Package auth provides the credential/session lifecycle for the platform
// API: JWT issuance and validation, bcrypt password handling, the
// revocable refresh-token flow, and the password-reset code registry.
//
// Token model:
//   - Access tokens are short-lived HS256 JWTs embedding the sanitized user
//     projection; they are verified on every protected request.
//   - Refresh tokens are signed with a distinct secret and carry no expiry
//     claim. A refresh token is exchangeable only while its store entry
//     exists AND the signature verifies, store membership checked first, so
//     logout revokes sessions regardless of cryptographic validity.
//
// Reset codes:
//   - CodeRegistry holds time-boxed one-time codes for the forgotten-password
//     flow. The in-memory implementation is process-local and lost on
//     restart; the Redis implementation preserves the same contract across
//     instances via key TTLs.
package auth
