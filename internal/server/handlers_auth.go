package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/meridianvest/platform/internal/auth"
	"github.com/meridianvest/platform/internal/mail"
	"github.com/meridianvest/platform/internal/model"
)

// UserRepository is the slice of the user store the controllers need.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*model.User, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*model.User, error)
}

// AuthController owns the /api/auth surface: registration, email
// verification, the login/refresh/logout session lifecycle, and both
// password-change flows.
type AuthController struct {
	users  UserRepository
	auther *auth.Auther
	codes  auth.CodeRegistry
	mailer mail.Sender
	logger *zap.SugaredLogger

	clientURL    string
	cooldownDays int
}

// NewAuthController wires the controller.
func NewAuthController(
	users UserRepository,
	auther *auth.Auther,
	codes auth.CodeRegistry,
	mailer mail.Sender,
	logger *zap.SugaredLogger,
	clientURL string,
	cooldownDays int,
) *AuthController {
	return &AuthController{
		users:        users,
		auther:       auther,
		codes:        codes,
		mailer:       mailer,
		logger:       logger,
		clientURL:    clientURL,
		cooldownDays: cooldownDays,
	}
}

// Register creates an unverified account and mails the verification link.
// A mail failure after the insert leaves the account unverified and returns
// 500; the record is intentionally not rolled back.
func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to parse request body",
		})
	}

	if missing := payload.MissingFields(); len(missing) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":       fmt.Sprintf("Missing %d required field(s).", len(missing)),
			"missingFields": missing,
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	ctx := c.Context()

	existing, err := a.users.FindByEmail(ctx, payload.Email)
	if err != nil {
		return respondError(c, err)
	}
	if existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "An account with this email already exists. Please log in.",
		})
	}

	verificationToken, err := auth.NewVerificationToken()
	if err != nil {
		return respondError(c, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate verification token"))
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		return respondError(c, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password"))
	}

	// The password-change cooldown starts at registration, so a fresh
	// account cannot immediately request a reset code.
	registeredAt := time.Now().UTC()
	user := &model.User{
		FullName:           payload.FullName,
		Email:              payload.Email,
		Password:           hash,
		Phone:              payload.Phone,
		Gender:             payload.Gender,
		Country:            payload.Country,
		ReferralCode:       payload.ReferralCode,
		VerificationToken:  verificationToken,
		LastPasswordChange: &registeredAt,
	}

	if _, err := a.users.Create(ctx, user); err != nil {
		return respondError(c, err)
	}

	verificationLink := fmt.Sprintf("%s/?token=%s", a.clientURL, verificationToken)
	if err := a.mailer.SendVerification(payload.Email, payload.FullName, verificationLink); err != nil {
		a.logger.Errorw("user created but verification email failed", "email", payload.Email, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Registration succeeded but failed to send confirmation email. Please contact support.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful. Please check your email to verify your account.",
	})
}

// Login verifies credentials and returns the token pair plus the sanitized
// user.
func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing login credentials",
		})
	}

	if payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing login credentials",
		})
	}

	result, err := a.auther.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return respondError(c, err)
	}

	var refreshToken any
	if result.RefreshToken != "" {
		refreshToken = result.RefreshToken
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"accessToken":  result.AccessToken,
		"refreshToken": refreshToken,
		"user":         result.User,
		"message":      "Login successful",
	})
}

// Retokenization exchanges a stored refresh token for a fresh access token.
func (a *AuthController) Retokenization(c *fiber.Ctx) error {
	payload := new(RefreshPayload)
	if err := c.BodyParser(payload); err != nil || payload.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing token",
		})
	}

	accessToken, user, err := a.auther.Refresh(c.Context(), payload.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"accessToken": accessToken,
		"user":        user,
	})
}

// Logout revokes the refresh token. A repeated logout with the same token
// reports failure, never a silent success.
func (a *AuthController) Logout(c *fiber.Ctx) error {
	payload := new(RefreshPayload)
	if err := c.BodyParser(payload); err != nil || payload.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Refresh token is required",
		})
	}

	if err := a.auther.Logout(c.Context(), payload.RefreshToken); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logout successful",
	})
}

// VerifyEmail flips the verification flag for the user holding the token and
// clears the token. A welcome email failure is logged but does not undo the
// verification.
func (a *AuthController) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid or missing verification token",
		})
	}

	ctx := c.Context()

	user, err := a.users.FindByVerificationToken(ctx, token)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Verification token is invalid or has expired",
		})
	}

	updated, err := a.users.UpdateFields(ctx, user.ID, bson.M{
		"isVerified":        true,
		"verificationToken": "",
	})
	if err != nil {
		return respondError(c, err)
	}
	if updated == nil || !updated.IsVerified {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to verify email. Please try again later or contact support",
		})
	}

	if err := a.mailer.SendWelcome(updated.Email, updated.FullName); err != nil {
		a.logger.Warnw("welcome email failed", "email", updated.Email, "error", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Email verified successfully. You may now log in.",
	})
}

// ChangePassword rotates the password for the authenticated user after
// re-checking the current one. The 21-day cooldown is a client-side gate on
// this endpoint; only the reset flow enforces it server-side.
func (a *AuthController) ChangePassword(c *fiber.Ctx) error {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Missing token",
		})
	}

	payload := new(ChangePasswordPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to parse request body",
		})
	}
	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	ctx := c.Context()

	user, err := a.users.FindByID(ctx, claims.UserID())
	if err != nil {
		return respondError(c, err)
	}

	if user == nil || auth.ComparePasswordAndHash(payload.CurrentPassword, user.Password) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Current password is incorrect.",
		})
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		return respondError(c, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password"))
	}

	updated, err := a.users.UpdateFields(ctx, user.ID, bson.M{
		"password":           hash,
		"lastPasswordChange": time.Now().UTC(),
	})
	if err != nil {
		return respondError(c, err)
	}
	if updated == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update the password.",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password updated successfully.",
		"change":  true,
	})
}

// CheckUser looks up an account for the forgotten-password flow. When the
// cooldown since the last password change has not elapsed it answers 403 and
// issues no code; otherwise it registers a one-time code and mails it.
func (a *AuthController) CheckUser(c *fiber.Ctx) error {
	email := c.Params("email")
	ctx := c.Context()

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No user associated with that email",
		})
	}

	safe := user.Safe().Redact(
		"phone", "gender", "country", "referralCode", "active", "lastSeen",
		"kyc", "wallet", "imageFilename", "isVerified", "createdAt", "updatedAt",
	)

	if !auth.PasswordChangeAllowed(user.LastPasswordChange, a.cooldownDays) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Password change temporarily restricted",
			"user":    safe,
		})
	}

	code, err := a.codes.Issue(ctx, email)
	if err != nil {
		return respondError(c, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue reset code"))
	}

	codeSent := true
	if err := a.mailer.SendResetCode(email, user.FullName, code, a.cooldownDays); err != nil {
		a.logger.Errorw("reset code email failed", "email", email, "error", err)
		codeSent = false
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user":     safe,
		"message":  "Code sent to email",
		"codeSent": codeSent,
	})
}

// ResetPassword consumes a one-time code and writes the new password. The
// code is removed before the write, so reuse fails with 401 regardless of
// whether the write succeeded.
func (a *AuthController) ResetPassword(c *fiber.Ctx) error {
	userID := c.Params("userId")
	email := c.Params("email")

	payload := new(ResetPasswordPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to parse request body",
		})
	}
	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	ctx := c.Context()

	ok, err := a.codes.Consume(ctx, email, payload.Code)
	if err != nil {
		return respondError(c, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check reset code"))
	}
	if !ok {
		return respondError(c, auth.ErrResetCodeInvalid)
	}

	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update the password.",
		})
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		return respondError(c, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password"))
	}

	updated, err := a.users.UpdateFields(ctx, user.ID, bson.M{
		"password":           hash,
		"lastPasswordChange": time.Now().UTC(),
	})
	if err != nil {
		return respondError(c, err)
	}
	if updated == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update the password.",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password updated successfully.",
		"success": true,
	})
}
