package people

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	memclock "github.com/mitchsmii/EllaRises/internal/adapters/memory/clock"
	memcredentialrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/credentialrepo"
	mempersonrepo "github.com/mitchsmii/EllaRises/internal/adapters/memory/personrepo"
	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/platform/auth"
)

func newService(t *testing.T) (*Service, *mempersonrepo.Repo, *memcredentialrepo.Repo, *auth.Tokens) {
	t.Helper()
	people := mempersonrepo.NewRepo()
	creds := memcredentialrepo.NewRepo()
	tokens := auth.NewTokens("test-secret", time.Hour)
	clk := memclock.NewManualClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewService(people, creds, tokens, clk), people, creds, tokens
}

func TestService_Create_NormalizesAndValidates(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newService(t)

	p, err := svc.Create(context.Background(), CreatePersonInput{
		Email:     "  Ana.Lopez@Example.COM ",
		FirstName: "  ana ",
		LastName:  " lopez ",
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if p.Email != "ana.lopez@example.com" {
		t.Fatalf("email=%q", p.Email)
	}
	if p.FirstName != "Ana" || p.LastName != "Lopez" {
		t.Fatalf("name=%q %q", p.FirstName, p.LastName)
	}

	_, err = svc.Create(context.Background(), CreatePersonInput{Email: "not-an-email", FirstName: "A", LastName: "B"})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "VALIDATION_ERROR" {
		t.Fatalf("err=%v, want VALIDATION_ERROR", err)
	}
}

func TestService_Create_EmailInUse(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newService(t)

	in := CreatePersonInput{Email: "ana@example.com", FirstName: "Ana", LastName: "Lopez"}
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	_, err := svc.Create(context.Background(), in)
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "EMAIL_IN_USE" {
		t.Fatalf("err=%v, want EMAIL_IN_USE", err)
	}
}

func TestService_Update_PartialAndNull(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newService(t)

	phone := "555-0100"
	created, err := svc.Create(context.Background(), CreatePersonInput{
		Email:     "ana@example.com",
		FirstName: "Ana",
		LastName:  "Lopez",
		Phone:     &phone,
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	// Only city specified: phone untouched.
	got, err := svc.Update(context.Background(), created.ID, UpdatePersonInput{
		City: Some("Austin"),
	})
	if err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if got.City == nil || *got.City != "Austin" {
		t.Fatalf("city=%v", got.City)
	}
	if got.Phone == nil || *got.Phone != "555-0100" {
		t.Fatalf("phone=%v, want untouched", got.Phone)
	}

	// Explicit null clears phone.
	got, err = svc.Update(context.Background(), created.ID, UpdatePersonInput{
		Phone: Null[string](),
	})
	if err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if got.Phone != nil {
		t.Fatalf("phone=%v, want cleared", got.Phone)
	}

	// Null firstName is rejected.
	_, err = svc.Update(context.Background(), created.ID, UpdatePersonInput{
		FirstName: Null[string](),
	})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "VALIDATION_ERROR" {
		t.Fatalf("err=%v, want VALIDATION_ERROR", err)
	}
}

// Updating a person to another person's email must be rejected, or email
// lookups would resolve to the wrong profile.
func TestService_Update_EmailConflict(t *testing.T) {
	t.Parallel()
	svc, people, _, _ := newService(t)

	a, err := svc.Create(context.Background(), CreatePersonInput{
		Email: "a@example.com", FirstName: "Ana", LastName: "Lopez",
	})
	if err != nil {
		t.Fatalf("Create a err=%v", err)
	}
	if _, err := svc.Create(context.Background(), CreatePersonInput{
		Email: "b@example.com", FirstName: "Ben", LastName: "Ortiz",
	}); err != nil {
		t.Fatalf("Create b err=%v", err)
	}

	_, err = svc.Update(context.Background(), a.ID, UpdatePersonInput{
		Email: Some("B@Example.com"),
	})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "EMAIL_IN_USE" {
		t.Fatalf("err=%v, want EMAIL_IN_USE", err)
	}

	// Person A is untouched and both emails still resolve uniquely.
	got, err := people.GetByEmail(context.Background(), "a@example.com")
	if err != nil || got.ID != a.ID {
		t.Fatalf("GetByEmail a: got=%+v err=%v", got, err)
	}

	// Re-saving a person's own email is not a conflict.
	if _, err := svc.Update(context.Background(), a.ID, UpdatePersonInput{
		Email: Some("a@example.com"),
	}); err != nil {
		t.Fatalf("self update err=%v", err)
	}
}

func TestService_Signup_Validation(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newService(t)

	err := svc.Signup(context.Background(), SignupInput{Email: "ana@example.com", Password: "short"})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "VALIDATION_ERROR" {
		t.Fatalf("err=%v, want VALIDATION_ERROR", err)
	}

	if err := svc.Signup(context.Background(), SignupInput{Email: "ana@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("Signup err=%v", err)
	}
	err = svc.Signup(context.Background(), SignupInput{Email: "ana@example.com", Password: "longenough"})
	if !errors.As(err, &ae) || ae.Code != "EMAIL_IN_USE" {
		t.Fatalf("err=%v, want EMAIL_IN_USE", err)
	}
}

func TestService_Login_RoundTrip(t *testing.T) {
	t.Parallel()
	svc, _, _, tokens := newService(t)

	if err := svc.Signup(context.Background(), SignupInput{Email: "ana@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("Signup err=%v", err)
	}

	sess, err := svc.Login(context.Background(), LoginInput{Email: "Ana@Example.com", Password: "longenough"})
	if err != nil {
		t.Fatalf("Login err=%v", err)
	}
	if sess.Role != string(domain.RoleUser) {
		t.Fatalf("role=%q", sess.Role)
	}
	claims, err := tokens.Verify(sess.Token)
	if err != nil {
		t.Fatalf("Verify err=%v", err)
	}
	if claims.Email != "ana@example.com" || claims.Role != domain.RoleUser {
		t.Fatalf("claims=%+v", claims)
	}

	_, err = svc.Login(context.Background(), LoginInput{Email: "ana@example.com", Password: "wrongpass"})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("err=%v, want INVALID_CREDENTIALS", err)
	}
	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever"})
	if !errors.As(err, &ae) || ae.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("err=%v, want INVALID_CREDENTIALS", err)
	}
}

// Accounts created before the role rename keep working: the stored "admin"
// level comes back as manager in the session.
func TestService_Login_NormalizesLegacyAdmin(t *testing.T) {
	t.Parallel()
	svc, _, creds, _ := newService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	err = creds.Create(context.Background(), domain.Credential{
		Email:    "boss@example.com",
		Password: string(hash),
		Role:     domain.Role("admin"),
	})
	if err != nil {
		t.Fatalf("create credential: %v", err)
	}

	sess, err := svc.Login(context.Background(), LoginInput{Email: "boss@example.com", Password: "longenough"})
	if err != nil {
		t.Fatalf("Login err=%v", err)
	}
	if sess.Role != string(domain.RoleManager) {
		t.Fatalf("role=%q, want manager", sess.Role)
	}
}
