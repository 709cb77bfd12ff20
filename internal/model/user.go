package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the account record persisted in the users collection.
// Accounts are never hard-deleted; lifecycle is tracked through the
// Blocked/Active/IsVerified flags.
type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FullName           string             `bson:"fullName" json:"fullName,omitempty"`
	Email              string             `bson:"email" json:"email,omitempty"`
	Password           string             `bson:"password" json:"-"`
	Phone              string             `bson:"phone" json:"phone,omitempty"`
	Gender             string             `bson:"gender" json:"gender,omitempty"`
	Country            string             `bson:"country" json:"country,omitempty"`
	ReferralCode       string             `bson:"referralCode,omitempty" json:"referralCode,omitempty"`
	IsVerified         bool               `bson:"isVerified" json:"isVerified"`
	VerificationToken  string             `bson:"verificationToken,omitempty" json:"-"`
	Blocked            bool               `bson:"blocked" json:"blocked"`
	Active             bool               `bson:"active" json:"active"`
	LastSeen           *time.Time         `bson:"lastSeen,omitempty" json:"lastSeen,omitempty"`
	LastPasswordChange *time.Time         `bson:"lastPasswordChange,omitempty" json:"lastPasswordChange,omitempty"`
	Wallet             primitive.ObjectID `bson:"wallet,omitempty" json:"wallet,omitempty"`
	KYC                primitive.ObjectID `bson:"kyc,omitempty" json:"kyc,omitempty"`
	ImageFilename      string             `bson:"imageFilename,omitempty" json:"imageFilename,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt,omitempty"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt,omitempty"`
}

// SafeUser is the sanitized projection of a User. It is what crosses the
// trust boundary: token claims and API responses. The password hash and the
// verification token have no representation here, so they cannot leak by
// construction.
type SafeUser struct {
	ID                 string     `json:"id,omitempty"`
	FullName           string     `json:"fullName,omitempty"`
	Email              string     `json:"email,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	Gender             string     `json:"gender,omitempty"`
	Country            string     `json:"country,omitempty"`
	ReferralCode       string     `json:"referralCode,omitempty"`
	IsVerified         bool       `json:"isVerified"`
	Blocked            bool       `json:"blocked"`
	Active             bool       `json:"active"`
	LastSeen           *time.Time `json:"lastSeen,omitempty"`
	LastPasswordChange *time.Time `json:"lastPasswordChange,omitempty"`
	Wallet             string     `json:"wallet,omitempty"`
	KYC                string     `json:"kyc,omitempty"`
	ImageFilename      string     `json:"imageFilename,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// Safe builds the sanitized projection for the user.
func (u *User) Safe() *SafeUser {
	if u == nil {
		return nil
	}

	s := &SafeUser{
		ID:                 u.ID.Hex(),
		FullName:           u.FullName,
		Email:              u.Email,
		Phone:              u.Phone,
		Gender:             u.Gender,
		Country:            u.Country,
		ReferralCode:       u.ReferralCode,
		IsVerified:         u.IsVerified,
		Blocked:            u.Blocked,
		Active:             u.Active,
		LastSeen:           u.LastSeen,
		LastPasswordChange: u.LastPasswordChange,
		ImageFilename:      u.ImageFilename,
	}

	if !u.Wallet.IsZero() {
		s.Wallet = u.Wallet.Hex()
	}
	if !u.KYC.IsZero() {
		s.KYC = u.KYC.Hex()
	}
	if !u.CreatedAt.IsZero() {
		t := u.CreatedAt
		s.CreatedAt = &t
	}
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		s.UpdatedAt = &t
	}

	return s
}

// Redact blanks the named fields on a copy of the projection. Callers use it
// when an endpoint should expose even less than the default projection, e.g.
// the password-recovery lookup.
func (s *SafeUser) Redact(fields ...string) *SafeUser {
	if s == nil {
		return nil
	}

	out := *s
	for _, f := range fields {
		switch f {
		case "phone":
			out.Phone = ""
		case "gender":
			out.Gender = ""
		case "country":
			out.Country = ""
		case "referralCode":
			out.ReferralCode = ""
		case "active":
			out.Active = false
		case "lastSeen":
			out.LastSeen = nil
		case "kyc":
			out.KYC = ""
		case "wallet":
			out.Wallet = ""
		case "imageFilename":
			out.ImageFilename = ""
		case "isVerified":
			out.IsVerified = false
		case "createdAt":
			out.CreatedAt = nil
		case "updatedAt":
			out.UpdatedAt = nil
		case "lastPasswordChange":
			out.LastPasswordChange = nil
		}
	}
	return &out
}

// RefreshTokenEntry is the server-side record of an issued refresh token.
// Presence in the store is the revocation check: logout deletes the entry and
// the token stops being exchangeable regardless of its signature validity.
type RefreshTokenEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Token     string             `bson:"token" json:"token"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
