package server

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// RegisterPayload is the registration request body.
type RegisterPayload struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	Gender       string `json:"gender"`
	Country      string `json:"country"`
	ReferralCode string `json:"referralCode"`
}

// MissingFields enumerates the required fields absent from the payload, in
// the order clients expect them reported.
func (r RegisterPayload) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"fullName", r.FullName},
		{"email", r.Email},
		{"password", r.Password},
		{"phone", r.Phone},
		{"gender", r.Gender},
		{"country", r.Country},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Phone, validation.Required, validation.By(validPhoneNumber)),
		validation.Field(&r.Gender, validation.Required),
		validation.Field(&r.Country, validation.Required, validation.Length(2, 100)),
	)
}

// validPhoneNumber accepts E.164-style numbers; bare national numbers pass
// through unchecked since the client does not enforce a region.
func validPhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" || s[0] != '+' {
		return nil
	}

	num, err := phonenumbers.Parse(s, "")
	if err != nil {
		return errors.New("must be a valid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}
	return nil
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshPayload carries the refresh token for retokenization and logout.
type RefreshPayload struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordPayload is the authenticated password change body.
type ChangePasswordPayload struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Validate will run validation rules
func (r ChangePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

// ResetPasswordPayload is the forgotten-password finalize body.
type ResetPasswordPayload struct {
	NewPassword string `json:"newPassword"`
	Code        string `json:"code"`
}

// Validate will run validation rules
func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}
