package domain

import (
	"strings"
	"unicode/utf8"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleResident UserRole = "resident"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleAdmin || r == UserRoleResident
}

// MinPasswordLength applies to every account created through the API.
const MinPasswordLength = 8

type User struct {
	ID           int32    `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	ResidentID   *int32   `json:"resident_id,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// NewAccount is a login created by an administrator.
type NewAccount struct {
	Username   string
	Password   string
	Role       UserRole
	ResidentID *int32
}

func validateCredentials(username *string, password string) error {
	*username = strings.TrimSpace(*username)
	if *username == "" {
		return NewValidationError("username is required")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return NewValidationError("password must be at least 8 characters")
	}
	return nil
}

func (a *NewAccount) Validate() error {
	if err := validateCredentials(&a.Username, a.Password); err != nil {
		return err
	}
	if a.Role == "" {
		a.Role = UserRoleResident
	}
	if !a.Role.IsValid() {
		return NewValidationError("role must be admin or resident")
	}
	if a.Role == UserRoleResident && a.ResidentID == nil {
		return NewValidationError("a resident account needs a resident id")
	}
	return nil
}

// SelfRegistration is a household signing itself up. The resident stays pending until
// an administrator verifies it.
type SelfRegistration struct {
	Resident Resident
	Members  []HouseholdMember
	Username string
	Password string
}

func (r *SelfRegistration) Validate() error {
	if err := r.Resident.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Resident.Contact) == "" {
		return NewValidationError("contact is required")
	}
	if r.Resident.OpeningBalance != 0 {
		return NewValidationError("opening balance is set by an administrator")
	}
	for i := range r.Members {
		if err := r.Members[i].Validate(); err != nil {
			return err
		}
	}
	return validateCredentials(&r.Username, r.Password)
}
