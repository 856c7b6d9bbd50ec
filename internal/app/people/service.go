package people

import (
	"context"
	"errors"
	"net/mail"

	"golang.org/x/crypto/bcrypt"

	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/platform/auth"
	clockport "github.com/mitchsmii/EllaRises/internal/ports/out/clock"
	"github.com/mitchsmii/EllaRises/internal/ports/out/credentialrepo"
	"github.com/mitchsmii/EllaRises/internal/ports/out/personrepo"
)

// Service manages participant profiles and login credentials. The two are
// soft-linked by email: either may exist without the other.
type Service struct {
	people personrepo.Repository
	creds  credentialrepo.Repository
	tokens *auth.Tokens
	clk    clockport.Clock
}

func NewService(people personrepo.Repository, creds credentialrepo.Repository, tokens *auth.Tokens, clk clockport.Clock) *Service {
	return &Service{people: people, creds: creds, tokens: tokens, clk: clk}
}

func (s *Service) List(ctx context.Context) ([]domain.Person, error) {
	return s.people.List(ctx)
}

func (s *Service) Get(ctx context.Context, id domain.PersonID) (domain.Person, error) {
	p, err := s.people.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, personrepo.ErrNotFound) {
			return domain.Person{}, &Error{Status: 404, Code: "PERSON_NOT_FOUND", Message: "person not found"}
		}
		return domain.Person{}, err
	}
	return p, nil
}

// GetByEmail resolves the profile behind an authenticated credential. A
// credential with no profile is a valid state and surfaces as 404.
func (s *Service) GetByEmail(ctx context.Context, email string) (domain.Person, error) {
	p, err := s.people.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, personrepo.ErrNotFound) {
			return domain.Person{}, &Error{Status: 404, Code: "PERSON_NOT_FOUND", Message: "no participant profile found"}
		}
		return domain.Person{}, err
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in CreatePersonInput) (domain.Person, error) {
	email := domain.NormalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return domain.Person{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid email", Details: map[string]any{"email": "must be a valid email address"}}
	}
	first := domain.NormalizeHumanName(in.FirstName)
	last := domain.NormalizeHumanName(in.LastName)
	if first == "" || last == "" {
		return domain.Person{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "first and last name are required"}
	}

	p, err := s.people.Create(ctx, domain.Person{
		Email:     email,
		FirstName: first,
		LastName:  last,
		Phone:     in.Phone,
		City:      in.City,
		State:     in.State,
		Birthdate: in.Birthdate,
	})
	if err != nil {
		if errors.Is(err, personrepo.ErrEmailConflict) {
			return domain.Person{}, &Error{Status: 400, Code: "EMAIL_IN_USE", Message: "a person with this email already exists"}
		}
		return domain.Person{}, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id domain.PersonID, in UpdatePersonInput) (domain.Person, error) {
	p, err := s.people.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, personrepo.ErrNotFound) {
			return domain.Person{}, &Error{Status: 404, Code: "PERSON_NOT_FOUND", Message: "person not found"}
		}
		return domain.Person{}, err
	}

	if in.Email.IsSpecified() {
		if in.Email.IsNull() {
			return domain.Person{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "email cannot be null"}
		}
		email := domain.NormalizeEmail(in.Email.Value())
		if err := validateEmail(email); err != nil {
			return domain.Person{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid email"}
		}
		p.Email = email
	}
	if in.FirstName.IsSpecified() {
		v := domain.NormalizeHumanName(in.FirstName.Value())
		if in.FirstName.IsNull() || v == "" {
			return domain.Person{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "firstName must be non-empty"}
		}
		p.FirstName = v
	}
	if in.LastName.IsSpecified() {
		v := domain.NormalizeHumanName(in.LastName.Value())
		if in.LastName.IsNull() || v == "" {
			return domain.Person{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "lastName must be non-empty"}
		}
		p.LastName = v
	}

	applyNullableString(&p.Phone, in.Phone)
	applyNullableString(&p.City, in.City)
	applyNullableString(&p.State, in.State)
	if in.Birthdate.IsSpecified() {
		if in.Birthdate.IsNull() {
			p.Birthdate = nil
		} else {
			v := in.Birthdate.Value().UTC()
			p.Birthdate = &v
		}
	}

	if err := s.people.Save(ctx, p); err != nil {
		if errors.Is(err, personrepo.ErrEmailConflict) {
			return domain.Person{}, &Error{Status: 400, Code: "EMAIL_IN_USE", Message: "a person with this email already exists"}
		}
		return domain.Person{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id domain.PersonID) error {
	if err := s.people.Delete(ctx, id); err != nil {
		if errors.Is(err, personrepo.ErrNotFound) {
			return &Error{Status: 404, Code: "PERSON_NOT_FOUND", Message: "person not found"}
		}
		return err
	}
	return nil
}

// Signup creates a login credential. It does not create a profile: the two
// records stay independently managed and join on email.
func (s *Service) Signup(ctx context.Context, in SignupInput) error {
	email := domain.NormalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid email"}
	}
	if len(in.Password) < 8 {
		return &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "password must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	err = s.creds.Create(ctx, domain.Credential{
		Email:    email,
		Password: string(hash),
		Role:     domain.RoleUser,
	})
	if err != nil {
		if errors.Is(err, credentialrepo.ErrAlreadyExists) {
			return &Error{Status: 400, Code: "EMAIL_IN_USE", Message: "an account with this email already exists"}
		}
		return err
	}
	return nil
}

// Login verifies the credential and issues a session token. The legacy
// "admin" level is normalized to manager here.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := domain.NormalizeEmail(in.Email)

	cred, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, credentialrepo.ErrNotFound) {
			return Session{}, &Error{Status: 400, Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(in.Password)); err != nil {
		return Session{}, &Error{Status: 400, Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}
	}

	role := domain.NormalizeRole(string(cred.Role))
	token, err := s.tokens.Sign(auth.Claims{Email: email, Role: role}, s.clk.Now())
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Email: email, Role: string(role)}, nil
}

func applyNullableString(dst **string, o Optional[string]) {
	if !o.IsSpecified() {
		return
	}
	if o.IsNull() {
		*dst = nil
		return
	}
	v := o.Value()
	*dst = &v
}

func validateEmail(s string) error {
	if s == "" {
		return errors.New("empty email")
	}
	_, err := mail.ParseAddress(s)
	return err
}
