package account

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ckdrisk/ckdrisk/internal/platform/auth"
)

// -- Mock user repository --

type mockUserRepo struct {
	users map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return u, nil
}

func newTestService() *Service {
	issuer := auth.NewIssuer([]byte("test-secret"), "ckd-risk-api", time.Hour)
	return NewService(newMockUserRepo(), issuer)
}

func TestRegister(t *testing.T) {
	svc := newTestService()

	u, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "Doc@Example.com",
		Password: "s3cret-pass",
		FullName: "Dr. Gregory House",
		Role:     "doctor",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "doc@example.com" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret-pass" {
		t.Error("password must be stored hashed")
	}
	if !u.Active {
		t.Error("new user should be active")
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "nope", Password: "longenough", FullName: "X", Role: "doctor"}},
		{"short password", RegisterRequest{Email: "a@b.com", Password: "short", FullName: "X", Role: "doctor"}},
		{"missing name", RegisterRequest{Email: "a@b.com", Password: "longenough", Role: "doctor"}},
		{"bad role", RegisterRequest{Email: "a@b.com", Password: "longenough", FullName: "X", Role: "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			if _, err := svc.Register(context.Background(), &tt.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()

	req := &RegisterRequest{Email: "dup@example.com", Password: "longenough", FullName: "X", Role: "nurse"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Register(context.Background(), &RegisterRequest{
		Email: "nurse@example.com", Password: "longenough", FullName: "N", Role: "nurse",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email: "nurse@example.com", Password: "longenough",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if !resp.ExpiresAt.After(time.Now()) {
		t.Errorf("expires_at %v should be in the future", resp.ExpiresAt)
	}
	if resp.User == nil || resp.User.Role != "nurse" {
		t.Errorf("unexpected user %+v", resp.User)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Register(context.Background(), &RegisterRequest{
		Email: "doc@example.com", Password: "longenough", FullName: "D", Role: "doctor",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email: "doc@example.com", Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService()

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email: "ghost@example.com", Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}
