package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

// Rich error values shared across the auth flows. Handlers convert these into
// HTTP status + JSON message at the edge; the category carries the intent.
var (
	// ErrIdentityNotFound is returned when no account matches the identifier.
	ErrIdentityNotFound = goerrors.New("no user found", goerrors.CategoryNotFound).
				WithCode(goerrors.CodeNotFound).
				WithTextCode("USER_NOT_FOUND")

	// ErrMismatchedHashAndPassword is returned for a wrong password.
	ErrMismatchedHashAndPassword = goerrors.New("invalid password", goerrors.CategoryAuth).
					WithCode(goerrors.CodeUnauthorized).
					WithTextCode("INVALID_PASSWORD")

	// ErrAccountBlocked is returned when a restricted account attempts login.
	ErrAccountBlocked = goerrors.New("user account is currently restricted, contact support to clarify", goerrors.CategoryAuth).
				WithCode(goerrors.CodeUnauthorized).
				WithTextCode("ACCOUNT_BLOCKED")

	// ErrEmailNotVerified gates login when the verified-email policy is on.
	ErrEmailNotVerified = goerrors.New("email not verified, please verify your email or contact support", goerrors.CategoryAuth).
				WithCode(goerrors.CodeUnauthorized).
				WithTextCode("EMAIL_NOT_VERIFIED")

	// ErrTokenExpired is returned for structurally valid but expired tokens.
	ErrTokenExpired = goerrors.New("token verification failed or token expired", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized).
			WithTextCode("TOKEN_EXPIRED")

	// ErrTokenMalformed is returned when a token cannot be parsed or its
	// signature does not check out.
	ErrTokenMalformed = goerrors.New("invalid or expired token", goerrors.CategoryAuth).
				WithCode(goerrors.CodeUnauthorized).
				WithTextCode("TOKEN_MALFORMED")

	// ErrTokenRevoked is returned when a refresh token has no store entry.
	// Store membership is checked before the signature so a logged-out token
	// is rejected even while cryptographically valid.
	ErrTokenRevoked = goerrors.New("invalid or expired token", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized).
			WithTextCode("TOKEN_REVOKED")

	// ErrResetCodeInvalid covers never-issued, mismatched, consumed and
	// expired reset codes; callers cannot distinguish the cases.
	ErrResetCodeInvalid = goerrors.New("Invalid or expired reset code.", goerrors.CategoryAuth).
				WithCode(goerrors.CodeUnauthorized).
				WithTextCode("RESET_CODE_INVALID")

	// ErrNoEmptyString rejects empty passwords before hashing.
	ErrNoEmptyString = goerrors.New("value must not be an empty string", goerrors.CategoryValidation).
				WithTextCode("EMPTY_STRING")
)
