package domain

import "time"

// Person is a program participant profile. It is soft-linked to a Credential
// by email: either side may exist without the other.
type Person struct {
	ID        PersonID
	Email     string
	FirstName string
	LastName  string
	Phone     *string
	City      *string
	State     *string
	Birthdate *time.Time
}

func (p Person) FullName() string {
	switch {
	case p.FirstName == "" && p.LastName == "":
		return ""
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
)

// NormalizeRole maps the legacy "admin" level to manager. Unknown values
// fall back to user.
func NormalizeRole(level string) Role {
	switch level {
	case "manager", "admin":
		return RoleManager
	case "user":
		return RoleUser
	default:
		return RoleUser
	}
}

// Credential is a login record keyed by email. Password holds a bcrypt hash.
type Credential struct {
	Email    string
	Password string
	Role     Role
}
