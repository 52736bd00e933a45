package user

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxUsernameLength = 50
	MaxNameLength     = 100
)

// Role constants
const (
	RoleOwner   = "owner"
	RoleTrainer = "trainer"
	RoleMember  = "member"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleOwner, RoleTrainer, RoleMember}

// Domain errors
var (
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrInvalidRole      = errors.New("role must be one of: owner, trainer, member")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrWrongPassword    = errors.New("incorrect password")
)

// User holds state for a login account: the credential record plus the
// display fields that make up the Identity handed to sessions.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Role         string
	CreatedAt    time.Time
}

// Identity is the authenticated tuple carried by a session.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

// ProfileUpdate carries a partial profile change. Empty fields are
// left unchanged.
type ProfileUpdate struct {
	Username string
	Name     string
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if len(u.Username) > MaxUsernameLength {
		return errors.New("username cannot exceed 50 characters")
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if len(u.Name) > MaxNameLength {
		return errors.New("name cannot exceed 100 characters")
	}
	if !isValidRole(u.Role) {
		return ErrInvalidRole
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext is non-empty and >= 8 characters
// POST: PasswordHash is set to bcrypt hash
func (u *User) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < 8 {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: User fields are not mutated
func (u *User) CheckPassword(plaintext string) error {
	if u.PasswordHash == "" {
		return ErrWrongPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) != nil {
		return ErrWrongPassword
	}
	return nil
}

// Identity returns the session tuple for this user.
// INVARIANT: User fields are not mutated
func (u *User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		Name:     u.Name,
	}
}

// IsOwner returns true if the user has the owner role.
// INVARIANT: User fields are not mutated
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// IsStaff returns true if the user has the owner or trainer role.
// INVARIANT: User fields are not mutated
func (u *User) IsStaff() bool {
	return u.Role == RoleOwner || u.Role == RoleTrainer
}

// Merge applies the non-empty fields of a partial update to the
// identity and returns the result.
// INVARIANT: the receiver is not mutated
func (i Identity) Merge(p ProfileUpdate) Identity {
	if strings.TrimSpace(p.Username) != "" {
		i.Username = p.Username
	}
	if strings.TrimSpace(p.Name) != "" {
		i.Name = p.Name
	}
	return i
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
