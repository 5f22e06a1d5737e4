package domain

import (
	"errors"
	"time"
)

var (
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrEmailTaken         = errors.New("identity with this email already exists")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)

type Role string

const (
	RoleUser   Role = "user"
	RoleArtist Role = "artist"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleArtist
}

// Identity is a registered account. Artists own listings, users save them.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role

	FirstName  string
	LastName   string
	Phone      string
	City       string
	ProfilePic string

	OwnedListingIDs []string
	SavedListingIDs []string

	CreatedAt time.Time
	UpdatedAt time.Time
}
