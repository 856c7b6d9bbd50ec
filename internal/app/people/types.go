package people

import "time"

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

type CreatePersonInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     *string
	City      *string
	State     *string
	Birthdate *time.Time
}

// UpdatePersonInput carries a partial profile edit. Null clears a nullable
// field; Email, FirstName and LastName cannot be null.
type UpdatePersonInput struct {
	Email     Optional[string]
	FirstName Optional[string]
	LastName  Optional[string]
	Phone     Optional[string]
	City      Optional[string]
	State     Optional[string]
	Birthdate Optional[time.Time]
}

type SignupInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// Session is a successful login: the signed token plus the normalized role.
type Session struct {
	Token string
	Email string
	Role  string
}
