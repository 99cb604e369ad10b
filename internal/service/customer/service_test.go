package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"

	"golang.org/x/crypto/bcrypt"
)

type memCustomers struct {
	nextID  int64
	byEmail map[string]*domain.Customer
	byID    map[int64]*domain.Customer
}

func newMemCustomers() *memCustomers {
	return &memCustomers{nextID: 1, byEmail: map[string]*domain.Customer{}, byID: map[int64]*domain.Customer{}}
}

func (m *memCustomers) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	if _, ok := m.byEmail[c.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	c.ID = m.nextID
	m.nextID++
	m.byEmail[c.Email] = &c
	m.byID[c.ID] = &c
	return &c, nil
}

func (m *memCustomers) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	if c, ok := m.byEmail[email]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memCustomers) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

type memTokens struct {
	tokens map[string]tokenrepo.Token
}

func newMemTokens() *memTokens {
	return &memTokens{tokens: map[string]tokenrepo.Token{}}
}

func (m *memTokens) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := m.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	m.tokens[t.Token] = t
	return nil
}

func (m *memTokens) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	if t, ok := m.tokens[token]; ok {
		return &t, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memTokens) Delete(_ context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

func newTestService() (*Service, *memCustomers, *memTokens) {
	customers := newMemCustomers()
	tokens := newMemTokens()
	return New(customers, tokens), customers, tokens
}

func TestSignupValidation(t *testing.T) {
	svc, customers, _ := newTestService()

	if _, err := svc.Signup(context.Background(), SignupInput{Email: "", Password: "longenough"}); err == nil {
		t.Fatalf("expected error for missing email")
	}
	if _, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.com", Password: "short"}); err == nil {
		t.Fatalf("expected error for short password")
	}
	if len(customers.byEmail) != 0 {
		t.Fatalf("invalid signup must not persist a customer")
	}
}

func TestSignupNormalizesAndHashes(t *testing.T) {
	svc, _, _ := newTestService()

	c, err := svc.Signup(context.Background(), SignupInput{
		Name:     " Jess ",
		Email:    " Jess@Example.COM ",
		Password: "Secret123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Email != "jess@example.com" || c.Name != "Jess" {
		t.Fatalf("input not normalized: %+v", c)
	}
	if c.PasswordHash == "Secret123" || c.PasswordHash == "" {
		t.Fatalf("password stored unhashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("Secret123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	in := SignupInput{Email: "a@b.com", Password: "Secret123"}

	if _, err := svc.Signup(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Signup(context.Background(), in); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, tokens := newTestService()
	if _, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.com", Password: "Secret123"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	c, access, refresh, err := svc.Login(context.Background(), "a@b.com", "Secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Email != "a@b.com" {
		t.Fatalf("unexpected customer: %+v", c)
	}
	if access == "" || refresh == "" || access == refresh {
		t.Fatalf("expected two distinct tokens, got %q / %q", access, refresh)
	}
	if len(tokens.tokens) != 2 {
		t.Fatalf("expected both tokens persisted, got %d", len(tokens.tokens))
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.com", Password: "Secret123"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, _, err := svc.Login(context.Background(), "a@b.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "nobody@b.com", "Secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestLookupByToken(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.com", Password: "Secret123"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, access, _, err := svc.Login(context.Background(), "a@b.com", "Secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	c, err := svc.LookupByToken(context.Background(), access)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Email != "a@b.com" {
		t.Fatalf("unexpected customer: %+v", c)
	}

	if _, err := svc.LookupByToken(context.Background(), "no-such-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestLookupByTokenExpired(t *testing.T) {
	svc, _, tokens := newTestService()
	if _, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.com", Password: "Secret123"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, access, _, err := svc.Login(context.Background(), "a@b.com", "Secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	stored := tokens.tokens[access]
	stored.ExpiresAt = time.Now().Add(-time.Minute)
	tokens.tokens[access] = stored

	if _, err := svc.LookupByToken(context.Background(), access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
	if _, ok := tokens.tokens[access]; ok {
		t.Fatalf("expired token must be deleted on validation")
	}
}
